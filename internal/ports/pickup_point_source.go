package ports

import (
	"collection-route-service/internal/domain"
	"context"
)

// Port: a boundary for retrieving the current fill-level snapshot.
type PickupPointSource interface {
	// Retrieve all pickup points with their current fill level.
	ListPickupPoints(ctx context.Context) ([]domain.PickupPoint, error)
}
