package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"net/http"
)

// PickupPointHandler exposes the current fill snapshot.
type PickupPointHandler struct {
	Source    ports.PickupPointSource
	Threshold int
}

func (h *PickupPointHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	points, err := h.Source.ListPickupPoints(r.Context())
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Error("list pickup points failed")
		writeError(w, r, http.StatusBadGateway, "pickup point snapshot unavailable")
		return
	}

	res := dto.ListPickupPointsResponse{
		PickupPoints: make([]dto.PickupPointResponse, 0, len(points)),
	}
	for _, p := range points {
		res.PickupPoints = append(res.PickupPoints, dto.PickupPointResponse{
			ID:     p.ID,
			Lat:    p.Coordinates.Lat,
			Lon:    p.Coordinates.Lon,
			Fill:   p.Fill,
			Active: p.Active(h.Threshold),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
