package distance

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/httpx"
	"collection-route-service/internal/platform/obs"
	"context"
	"errors"
	"time"
)

// ORS allows at most 3500 routes per matrix request on the standard plan.
const orsMaxDestinations = 3499

// ORSOracle answers travel-time queries with the OpenRouteService matrix API.
// The provider is safe for concurrent use.
type ORSOracle struct {
	client  *httpx.Client
	apiKey  string
	baseURL string
	profile string
}

type ORSOption func(*ORSOracle)

// WithBaseURL points the oracle at another ORS deployment.
func WithBaseURL(u string) ORSOption {
	return func(o *ORSOracle) { o.baseURL = u }
}

// WithHTTPClient replaces the default rate-limited client.
func WithHTTPClient(c *httpx.Client) ORSOption {
	return func(o *ORSOracle) { o.client = c }
}

func NewORSOracle(apiKey string, opts ...ORSOption) (*ORSOracle, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := &ORSOracle{
		// free tier: 40 matrix requests per minute
		client:  httpx.NewClient(10*time.Second, 40.0/60.0),
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// CacheNamespace scopes cached travel times to the ORS routing profile.
func (o *ORSOracle) CacheNamespace() string {
	return "ors:" + o.profile
}

func (o *ORSOracle) FastestTravelTimeSeconds(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (int, error) {
	if origin == destination {
		return 0, nil
	}

	row, err := o.FastestTravelTimesFrom(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return 0, err
	}
	return row[0], nil
}

// FastestTravelTimesFrom computes durations from a single origin to many destinations,
// one matrix request per chunk.
func (o *ORSOracle) FastestTravelTimesFrom(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ []int, err error) {
	defer obs.Time(ctx, "ors.FastestTravelTimesFrom")(&err)

	out := make([]int, 0, len(destinations))
	for start := 0; start < len(destinations); start += orsMaxDestinations {
		end := min(start+orsMaxDestinations, len(destinations))

		row, err := o.fetchMatrixRow(ctx, origin, destinations[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, row...)
	}

	return out, nil
}
