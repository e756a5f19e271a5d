package cache

import (
	"collection-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTravelTimeCache stores one hash per origin: field = destination key,
// value = seconds. Hashes expire after TTL (zero keeps them forever).
type RedisTravelTimeCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisTravelTimeCache(client *redis.Client, ttl time.Duration) *RedisTravelTimeCache {
	return &RedisTravelTimeCache{Client: client, Prefix: "traveltime:", TTL: ttl}
}

func (r *RedisTravelTimeCache) key(origin string) string {
	return r.Prefix + origin
}

func (r *RedisTravelTimeCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]int, err error) {
	defer obs.Time(ctx, "traveltime.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("travel time cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get travel time cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]int{}, nil
	}

	vals, err := r.Client.HMGet(ctx, r.key(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get travel time cache: hmget: %w", err)
	}

	out := make(map[string]int, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		seconds, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("get travel time cache: bad value for %q: %w", uniq[i], err)
		}
		out[uniq[i]] = seconds
	}
	return out, nil
}

func (r *RedisTravelTimeCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]int,
) error {
	if r.Client == nil {
		return errors.New("travel time cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert travel time cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, seconds := range results {
		if dest == "" {
			return fmt.Errorf("insert travel time cache: empty destination key")
		}
		fields[dest] = seconds
	}

	key := r.key(origin)
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fields)
		if r.TTL > 0 {
			p.Expire(ctx, key, r.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert travel time cache: %w", err)
	}
	return nil
}
