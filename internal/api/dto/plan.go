package dto

type PlanRequest struct {
	VehicleCount        int  `json:"vehicle_count"`
	VehicleCapacity     int  `json:"vehicle_capacity"`
	ActivationThreshold *int `json:"activation_threshold"`
	TimeBudgetMs        *int `json:"time_budget_ms"`
	Publish             bool `json:"publish"`
}

type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RouteResponse struct {
	Vehicle         int      `json:"vehicle"`
	PickupPointIDs  []string `json:"pickup_point_ids"`
	Load            int      `json:"load"`
	DurationSeconds int      `json:"duration_seconds"`
}

type PlanResponse struct {
	RunID                      string               `json:"run_id"`
	Status                     string               `json:"status"`
	ActivePoints               int                  `json:"active_points"`
	TotalDurationSeconds       int                  `json:"total_duration_seconds"`
	ConstructedDurationSeconds int                  `json:"constructed_duration_seconds"`
	TotalLoad                  int                  `json:"total_load"`
	Routes                     []RouteResponse      `json:"routes"`
	Tour                       []CoordinateResponse `json:"tour"`
	Link                       string               `json:"link,omitempty"`
	Published                  bool                 `json:"published"`
}
