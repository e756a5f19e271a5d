package services

import (
	"collection-route-service/internal/adapters/distance"
	"collection-route-service/internal/domain"
	"context"
	"errors"
	"testing"
	"time"
)

type staticSource struct {
	points []domain.PickupPoint
	err    error
}

func (s staticSource) ListPickupPoints(context.Context) ([]domain.PickupPoint, error) {
	return s.points, s.err
}

func TestPlanCollection(t *testing.T) {
	depot := domain.Coordinates{Lat: 50.982761, Lon: 7.118816}
	source := staticSource{points: []domain.PickupPoint{
		{ID: "1", Coordinates: domain.Coordinates{Lat: 50.990, Lon: 7.120}, Fill: 40},
		{ID: "2", Coordinates: domain.Coordinates{Lat: 50.995, Lon: 7.130}, Fill: 19},
		{ID: "3", Coordinates: domain.Coordinates{Lat: 50.970, Lon: 7.100}, Fill: 120},
		{ID: "4", Coordinates: domain.Coordinates{Lat: 50.975, Lon: 7.140}, Fill: 150},
		{ID: "5", Coordinates: domain.Coordinates{Lat: 51.000, Lon: 7.110}, Fill: 20},
	}}

	req := PlanCollectionRequest{
		Depot:               depot,
		Fleet:               domain.Fleet{VehicleCount: 3, Capacity: 250},
		ActivationThreshold: domain.ActivationThreshold,
		Matrix:              MatrixOptions{Parallelism: 2},
		Solver:              SolverOptions{TimeBudget: 100 * time.Millisecond, MaxPasses: 20},
	}

	plan, err := PlanCollection(context.Background(), req, source, distance.NewStraightLineOracle(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.RunID == "" {
		t.Fatal("expected a run id")
	}
	if plan.Status != StatusDone {
		t.Fatalf("status = %s, want done", plan.Status)
	}
	if len(plan.Points) != 4 {
		t.Fatalf("active points = %d, want 4", len(plan.Points))
	}
	if plan.Matrix.Size() != 5 {
		t.Fatalf("matrix size = %d, want 5", plan.Matrix.Size())
	}
	checkSolution(t, plan.Solution, plan.Matrix, plan.Demands, req.Fleet)

	if plan.Solution.Cost > plan.Constructed.Cost {
		t.Fatalf("cost %d worse than constructed %d", plan.Solution.Cost, plan.Constructed.Cost)
	}

	tour := plan.Tour
	if len(tour) < 6 || tour[0] != depot || tour[len(tour)-1] != depot || tour[1] == depot {
		t.Fatalf("tour = %v", tour)
	}
	stops := 0
	for _, c := range tour {
		if c != depot {
			stops++
		}
	}
	if stops != 4 {
		t.Fatalf("tour visits %d stops, want 4", stops)
	}
}

func TestPlanCollectionCapacityExceeded(t *testing.T) {
	source := staticSource{points: []domain.PickupPoint{
		{ID: "a", Fill: 30},
		{ID: "b", Fill: 25},
	}}
	req := PlanCollectionRequest{
		Fleet:               domain.Fleet{VehicleCount: 1, Capacity: 50},
		ActivationThreshold: 20,
		Solver:              SolverOptions{TimeBudget: time.Second},
	}
	oracle := distance.NewMockOracle(nil)

	_, err := PlanCollection(context.Background(), req, source, oracle)

	var capErr *domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if capErr.Shortfall != 5 {
		t.Fatalf("shortfall = %d, want 5", capErr.Shortfall)
	}
	if oracle.Calls() != 0 {
		t.Fatalf("oracle called %d times before validation failed", oracle.Calls())
	}
}

func TestPlanCollectionUnreachable(t *testing.T) {
	source := staticSource{points: []domain.PickupPoint{
		{ID: "island", Coordinates: domain.Coordinates{Lat: 1, Lon: 1}, Fill: 50},
	}}
	req := PlanCollectionRequest{
		Fleet:               domain.Fleet{VehicleCount: 1, Capacity: 100},
		ActivationThreshold: 20,
	}

	plan, err := PlanCollection(context.Background(), req, source, distance.NewMockOracle(nil))

	var unreachable *domain.UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("err = %v, want UnreachableError", err)
	}
	if plan != nil {
		t.Fatal("no plan expected when the matrix cannot be built")
	}
}

func TestPlanCollectionInfeasible(t *testing.T) {
	source := staticSource{points: []domain.PickupPoint{
		{ID: "a", Coordinates: domain.Coordinates{Lat: 0, Lon: 0.01}, Fill: 60},
		{ID: "b", Coordinates: domain.Coordinates{Lat: 0, Lon: 0.02}, Fill: 60},
		{ID: "c", Coordinates: domain.Coordinates{Lat: 0, Lon: 0.03}, Fill: 60},
	}}
	req := PlanCollectionRequest{
		Fleet:               domain.Fleet{VehicleCount: 2, Capacity: 100},
		ActivationThreshold: 20,
	}

	plan, err := PlanCollection(context.Background(), req, source, distance.NewStraightLineOracle(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != StatusInfeasible {
		t.Fatalf("status = %s, want infeasible", plan.Status)
	}
	if plan.Solution != nil || len(plan.Tour) != 0 {
		t.Fatal("infeasible plan must not carry a solution or tour")
	}
}

func TestPlanCollectionSourceError(t *testing.T) {
	boom := errors.New("boom")
	req := PlanCollectionRequest{Fleet: domain.Fleet{VehicleCount: 1, Capacity: 1}}

	_, err := PlanCollection(context.Background(), req, staticSource{err: boom}, distance.NewMockOracle(nil))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped source error", err)
	}
}
