package services

import (
	"collection-route-service/internal/domain"
	"fmt"
)

// Demands returns the load per node: index 0 is the depot (0), index i is
// points[i-1].Fill.
func Demands(points []domain.PickupPoint) ([]int, error) {
	demands := make([]int, len(points)+1)
	for i, p := range points {
		if p.Fill < 0 {
			return nil, fmt.Errorf("demand for pickup point %q: fill %d: %w", p.ID, p.Fill, domain.ErrInvalidDemand)
		}
		demands[i+1] = p.Fill
	}
	return demands, nil
}

// ValidateDemands fails with *domain.CapacityExceededError when the summed
// demand does not fit into the fleet. Points are never dropped here.
func ValidateDemands(demands []int, fleet domain.Fleet) error {
	if err := fleet.Validate(); err != nil {
		return err
	}
	if len(demands) > 0 && demands[domain.DepotNode] != 0 {
		return fmt.Errorf("depot demand %d: %w", demands[domain.DepotNode], domain.ErrInvalidDemand)
	}

	total := 0
	for i, d := range demands {
		if d < 0 {
			return fmt.Errorf("demand of node %d is %d: %w", i, d, domain.ErrInvalidDemand)
		}
		total += d
	}

	if capacity := fleet.TotalCapacity(); total > capacity {
		return &domain.CapacityExceededError{
			TotalDemand:   total,
			TotalCapacity: capacity,
			Shortfall:     total - capacity,
		}
	}
	return nil
}
