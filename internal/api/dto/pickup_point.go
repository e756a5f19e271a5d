package dto

type PickupPointResponse struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Fill   int     `json:"fill"`
	Active bool    `json:"active"`
}

type ListPickupPointsResponse struct {
	PickupPoints []PickupPointResponse `json:"pickup_points"`
}
