package distance

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/ports"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CachedOracle consults a persistent travel-time cache before delegating to
// the wrapped oracle. Cache write failures are logged, not returned.
// Origin keys carry the wrapped oracle's namespace when it has one.
type CachedOracle struct {
	next      ports.DistanceOracle
	cache     ports.TravelTimeCache
	namespace string
}

func NewCachedOracle(next ports.DistanceOracle, cache ports.TravelTimeCache) *CachedOracle {
	c := &CachedOracle{next: next, cache: cache}
	if ns, ok := next.(ports.CacheNamespacer); ok {
		c.namespace = ns.CacheNamespace()
	}
	return c
}

func (c *CachedOracle) originKey(origin domain.Coordinates) string {
	if c.namespace == "" {
		return origin.Key()
	}
	return c.namespace + "|" + origin.Key()
}

func (c *CachedOracle) FastestTravelTimeSeconds(ctx context.Context, origin, destination domain.Coordinates) (int, error) {
	row, err := c.FastestTravelTimesFrom(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return 0, err
	}
	return row[0], nil
}

// FastestTravelTimesFrom serves hits from the cache and fetches misses as one
// row when the wrapped oracle supports it.
func (c *CachedOracle) FastestTravelTimesFrom(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) ([]int, error) {
	originKey := c.originKey(origin)

	keys := make([]string, len(destinations))
	for i, d := range destinations {
		keys[i] = d.Key()
	}

	hits, err := c.cache.GetMany(ctx, originKey, keys)
	if err != nil {
		return nil, fmt.Errorf("travel time cache lookup: %w", err)
	}

	var misses []domain.Coordinates
	for i, d := range destinations {
		if _, ok := hits[keys[i]]; !ok && d != origin {
			misses = append(misses, d)
		}
	}

	fresh := make(map[string]int, len(misses))
	if len(misses) > 0 {
		var seconds []int
		if row, ok := c.next.(ports.DistanceRowOracle); ok {
			seconds, err = row.FastestTravelTimesFrom(ctx, origin, misses)
			if err != nil {
				return nil, err
			}
		} else {
			seconds = make([]int, len(misses))
			for i, d := range misses {
				seconds[i], err = c.next.FastestTravelTimeSeconds(ctx, origin, d)
				if err != nil {
					return nil, err
				}
			}
		}
		if len(seconds) != len(misses) {
			return nil, fmt.Errorf("travel time oracle returned %d values for %d destinations", len(seconds), len(misses))
		}
		for i, d := range misses {
			fresh[d.Key()] = seconds[i]
		}

		if err := c.cache.PutMany(ctx, originKey, fresh); err != nil {
			log.WithError(err).Warn("travel time cache write failed")
		}
	}

	out := make([]int, len(destinations))
	for i, k := range keys {
		if destinations[i] == origin {
			continue
		}
		if s, ok := fresh[k]; ok {
			out[i] = s
			continue
		}
		out[i] = hits[k]
	}
	return out, nil
}
