package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type PlanCollectionRequest struct {
	Depot               domain.Coordinates
	Fleet               domain.Fleet
	ActivationThreshold int
	Matrix              MatrixOptions
	Solver              SolverOptions
}

// CollectionPlan is the structured outcome of one planning run.
type CollectionPlan struct {
	RunID  string
	Status SolveStatus
	Depot  domain.Coordinates
	// Points are the active pickup points; node i is Points[i-1].
	Points      []domain.PickupPoint
	Demands     []int
	Matrix      domain.DistanceMatrix
	Constructed *domain.Solution
	Solution    *domain.Solution
	// Tour is the depot-anchored visiting order; empty without stops or when infeasible.
	Tour  []domain.Coordinates
	Stats SolveStats
}

// PlanCollection runs one planning pipeline: snapshot, activation filter,
// demand validation, travel time matrix, solve, tour extraction.
// An infeasible packing is reported through Status, not as an error.
func PlanCollection(
	ctx context.Context,
	req PlanCollectionRequest,
	source ports.PickupPointSource,
	oracle ports.DistanceOracle,
) (_ *CollectionPlan, err error) {
	ctx, runID := obs.WithRequestID(ctx)
	defer obs.Time(ctx, "services.PlanCollection")(&err)
	defer func() {
		if err != nil {
			metrics.PlanRuns.WithLabelValues("error").Inc()
		}
	}()

	if req.ActivationThreshold < 0 {
		return nil, fmt.Errorf("plan collection: negative activation threshold: %w", domain.ErrInvalidProblem)
	}
	if err := req.Fleet.Validate(); err != nil {
		return nil, fmt.Errorf("plan collection: %w", err)
	}

	all, err := source.ListPickupPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan collection: list pickup points: %w", err)
	}
	active := domain.ActivePoints(all, req.ActivationThreshold)

	demands, err := Demands(active)
	if err != nil {
		return nil, fmt.Errorf("plan collection: %w", err)
	}
	if err := ValidateDemands(demands, req.Fleet); err != nil {
		return nil, fmt.Errorf("plan collection: %w", err)
	}

	started := time.Now()
	matrix, err := BuildDistanceMatrix(ctx, req.Depot, active, oracle, req.Matrix)
	if err != nil {
		return nil, fmt.Errorf("plan collection: %w", err)
	}
	metrics.MatrixBuildDuration.Observe(time.Since(started).Seconds())

	res, err := SolveCVRP(ctx, matrix, demands, req.Fleet, req.Solver)
	if err != nil {
		return nil, fmt.Errorf("plan collection: %w", err)
	}
	metrics.SolveDuration.Observe(res.Stats.Elapsed.Seconds())
	metrics.LocalOptima.Add(float64(res.Stats.LocalOptima))

	plan := &CollectionPlan{
		RunID:       runID,
		Status:      res.Status,
		Depot:       req.Depot,
		Points:      active,
		Demands:     demands,
		Matrix:      matrix,
		Constructed: res.Constructed,
		Solution:    res.Solution,
		Stats:       res.Stats,
	}

	logger := obs.Logger(ctx).WithFields(log.Fields{
		"snapshot": len(all),
		"active":   len(active),
		"vehicles": req.Fleet.VehicleCount,
		"capacity": req.Fleet.Capacity,
	})

	if res.Status == StatusInfeasible {
		metrics.PlanRuns.WithLabelValues(res.Status.String()).Inc()
		logger.Warn("no feasible packing of pickup points into the fleet")
		return plan, nil
	}

	plan.Tour, err = ExtractTour(res.Solution, active, req.Depot)
	if err != nil {
		var oob *domain.IndexOutOfRangeError
		if errors.As(err, &oob) {
			logger.WithFields(log.Fields{
				"matrix_size": matrix.Size(),
				"demands":     len(demands),
				"routes":      len(res.Solution.Routes),
			}).WithError(err).Error("solution references a node outside the problem")
		}
		return nil, fmt.Errorf("plan collection: extract tour: %w", err)
	}

	metrics.SolutionCost.WithLabelValues("constructed").Set(float64(res.Constructed.Cost))
	metrics.SolutionCost.WithLabelValues("best").Set(float64(res.Solution.Cost))
	metrics.PlanRuns.WithLabelValues(res.Status.String()).Inc()

	logger.WithFields(log.Fields{
		"constructed_cost": res.Constructed.Cost,
		"cost":             res.Solution.Cost,
		"used_vehicles":    res.Solution.UsedVehicles(),
		"load":             res.Solution.TotalLoad(),
		"passes":           res.Stats.Passes,
		"moves":            res.Stats.Moves,
	}).Info("collection plan ready")

	return plan, nil
}
