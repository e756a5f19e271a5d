package distance

import (
	"collection-route-service/internal/domain"
	"context"
	"math"

	"github.com/paulmach/orb/geo"
)

// StraightLineOracle estimates travel time from the great-circle distance at
// a constant speed. Useful for offline runs and tests; it is symmetric and
// never unreachable.
type StraightLineOracle struct {
	SpeedKmh float64
}

func NewStraightLineOracle(speedKmh float64) *StraightLineOracle {
	if speedKmh <= 0 {
		speedKmh = 30
	}
	return &StraightLineOracle{SpeedKmh: speedKmh}
}

func (s *StraightLineOracle) FastestTravelTimeSeconds(ctx context.Context, origin, destination domain.Coordinates) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	meters := geo.Distance(origin.Point(), destination.Point())
	return int(math.Round(meters / (s.SpeedKmh / 3.6))), nil
}
