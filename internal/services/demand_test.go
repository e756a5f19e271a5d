package services

import (
	"collection-route-service/internal/domain"
	"errors"
	"reflect"
	"testing"
)

func TestDemands(t *testing.T) {
	points := []domain.PickupPoint{{ID: "a", Fill: 20}, {ID: "b", Fill: 45}}

	got, err := Demands(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{0, 20, 45}; !reflect.DeepEqual(got, want) {
		t.Fatalf("demands = %v, want %v", got, want)
	}

	if _, err := Demands([]domain.PickupPoint{{ID: "x", Fill: -1}}); !errors.Is(err, domain.ErrInvalidDemand) {
		t.Fatalf("err = %v, want ErrInvalidDemand", err)
	}
}

func TestValidateDemandsShortfall(t *testing.T) {
	fleet := domain.Fleet{VehicleCount: 2, Capacity: 50}

	err := ValidateDemands([]int{0, 40, 35, 30}, fleet)

	var capErr *domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if capErr.Shortfall != 5 || capErr.TotalDemand != 105 || capErr.TotalCapacity != 100 {
		t.Fatalf("err = %+v", capErr)
	}
}

func TestValidateDemandsAcceptsExactFit(t *testing.T) {
	if err := ValidateDemands([]int{0, 50, 50}, domain.Fleet{VehicleCount: 2, Capacity: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDemands([]int{3, 1}, domain.Fleet{VehicleCount: 1, Capacity: 50}); !errors.Is(err, domain.ErrInvalidDemand) {
		t.Fatalf("depot demand: err = %v", err)
	}
}
