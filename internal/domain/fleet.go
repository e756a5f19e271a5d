package domain

import "fmt"

// Default fleet used by the collection service.
const (
	DefaultVehicleCount    = 12
	DefaultVehicleCapacity = 250
)

// Fleet describes the homogeneous set of vehicles available for one run.
type Fleet struct {
	VehicleCount int
	Capacity     int
}

func NewFleet(vehicleCount, capacity int) (Fleet, error) {
	f := Fleet{VehicleCount: vehicleCount, Capacity: capacity}
	if err := f.Validate(); err != nil {
		return Fleet{}, err
	}
	return f, nil
}

func (f Fleet) Validate() error {
	if f.VehicleCount < 1 {
		return fmt.Errorf("fleet: vehicle count must be positive (got %d): %w", f.VehicleCount, ErrInvalidProblem)
	}
	if f.Capacity < 1 {
		return fmt.Errorf("fleet: vehicle capacity must be positive (got %d): %w", f.Capacity, ErrInvalidProblem)
	}
	return nil
}

// TotalCapacity is the summed capacity of every vehicle.
func (f Fleet) TotalCapacity() int {
	return f.VehicleCount * f.Capacity
}
