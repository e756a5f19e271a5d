package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// PlanDefaults holds the configured values used when a request omits them.
type PlanDefaults struct {
	Depot               domain.Coordinates
	Fleet               domain.Fleet
	ActivationThreshold int
	TimeBudget          time.Duration
	MatrixParallelism   int
}

type PlanHandler struct {
	Source    ports.PickupPointSource
	Oracle    ports.DistanceOracle
	Publisher ports.LinkPublisher
	Link      func(depot domain.Coordinates, tour []domain.Coordinates) string
	Defaults  PlanDefaults
}

// Plan runs one collection planning pass and returns the routes, the tour and
// optionally publishes the map link.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	fleet := h.Defaults.Fleet
	if req.VehicleCount != 0 {
		fleet.VehicleCount = req.VehicleCount
	}
	if fleet.VehicleCount < 1 || fleet.VehicleCount > 100 {
		writeError(w, r, http.StatusBadRequest, "vehicle_count must be between 1 and 100")
		return
	}
	if req.VehicleCapacity != 0 {
		fleet.Capacity = req.VehicleCapacity
	}
	if fleet.Capacity < 1 || fleet.Capacity > 100000 {
		writeError(w, r, http.StatusBadRequest, "vehicle_capacity must be between 1 and 100000")
		return
	}

	threshold := h.Defaults.ActivationThreshold
	if req.ActivationThreshold != nil {
		threshold = *req.ActivationThreshold
	}
	if threshold < 0 {
		writeError(w, r, http.StatusBadRequest, "activation_threshold must not be negative")
		return
	}

	budget := h.Defaults.TimeBudget
	if req.TimeBudgetMs != nil {
		if *req.TimeBudgetMs < 0 || *req.TimeBudgetMs > 60000 {
			writeError(w, r, http.StatusBadRequest, "time_budget_ms must be between 0 and 60000")
			return
		}
		budget = time.Duration(*req.TimeBudgetMs) * time.Millisecond
	}

	if req.Publish && h.Publisher == nil {
		writeError(w, r, http.StatusBadRequest, "publishing is not configured")
		return
	}

	svcReq := services.PlanCollectionRequest{
		Depot:               h.Defaults.Depot,
		Fleet:               fleet,
		ActivationThreshold: threshold,
		Matrix:              services.MatrixOptions{Parallelism: h.Defaults.MatrixParallelism},
		Solver:              services.SolverOptions{TimeBudget: budget},
	}

	plan, err := services.PlanCollection(r.Context(), svcReq, h.Source, h.Oracle)
	if err != nil {
		status, msg := planErrorStatus(err)
		if status >= http.StatusInternalServerError {
			obs.Logger(r.Context()).WithError(err).Error("plan collection failed")
		}
		writeError(w, r, status, msg)
		return
	}

	res := planResponse(plan)

	if plan.Status == services.StatusDone && h.Link != nil {
		res.Link = h.Link(plan.Depot, plan.Tour)

		if req.Publish {
			if err := h.Publisher.Publish(r.Context(), res.Link); err != nil {
				obs.Logger(r.Context()).WithError(err).Error("publish link failed")
				writeError(w, r, http.StatusBadGateway, "plan ready but publishing failed")
				return
			}
			res.Published = true
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func planErrorStatus(err error) (int, string) {
	var capErr *domain.CapacityExceededError
	var unreachable *domain.UnreachableError

	switch {
	case errors.As(err, &capErr):
		return http.StatusUnprocessableEntity, capErr.Error()
	case errors.As(err, &unreachable):
		return http.StatusUnprocessableEntity, unreachable.Error()
	case errors.Is(err, domain.ErrInvalidDemand), errors.Is(err, domain.ErrInvalidProblem):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "planning cancelled"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func planResponse(plan *services.CollectionPlan) dto.PlanResponse {
	res := dto.PlanResponse{
		RunID:        plan.RunID,
		Status:       plan.Status.String(),
		ActivePoints: len(plan.Points),
		Routes:       []dto.RouteResponse{},
		Tour:         make([]dto.CoordinateResponse, 0, len(plan.Tour)),
	}

	if plan.Solution != nil {
		res.TotalDurationSeconds = plan.Solution.Cost
		res.TotalLoad = plan.Solution.TotalLoad()
		for _, route := range plan.Solution.Routes {
			if !route.Used() {
				continue
			}
			ids := make([]string, 0, len(route.Nodes))
			for _, n := range route.Stops() {
				ids = append(ids, plan.Points[n-1].ID)
			}
			res.Routes = append(res.Routes, dto.RouteResponse{
				Vehicle:         route.Vehicle,
				PickupPointIDs:  ids,
				Load:            route.Load,
				DurationSeconds: route.Seconds,
			})
		}
	}
	if plan.Constructed != nil {
		res.ConstructedDurationSeconds = plan.Constructed.Cost
	}

	for _, c := range plan.Tour {
		res.Tour = append(res.Tour, dto.CoordinateResponse{Lat: c.Lat, Lon: c.Lon})
	}
	return res
}
