package ports

import (
	"collection-route-service/internal/domain"
	"context"
)

// Contract for answering fastest travel time queries between coordinates.
// Implementations fail with *domain.UnreachableError when no path exists;
// they never mask a missing path as zero or a sentinel integer.
type DistanceOracle interface {
	// Return the fastest travel time in whole seconds from origin to destination.
	FastestTravelTimeSeconds(ctx context.Context, origin, destination domain.Coordinates) (int, error)
}

// Optional extension of DistanceOracle that answers one origin -> many destinations
// in a single call. The result is positionally aligned with destinations.
type DistanceRowOracle interface {
	DistanceOracle
	FastestTravelTimesFrom(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) ([]int, error)
}

// Optional extension naming the backend an oracle's answers come from, such as
// a routing profile or a graph fingerprint. Cached travel times are kept per
// namespace so a backend switch or graph rebuild never serves stale values.
type CacheNamespacer interface {
	CacheNamespace() string
}
