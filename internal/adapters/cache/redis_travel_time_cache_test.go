package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisTravelTimeCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTravelTimeCache(client, time.Hour), mr
}

func TestRedisTravelTimeCacheRoundTrip(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, "1,2", map[string]int{"3,4": 120, "5,6": 300}))

	got, err := c.GetMany(ctx, "1,2", []string{"3,4", "5,6", "7,8", "3,4", " "})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"3,4": 120, "5,6": 300}, got)

	assert.Equal(t, time.Hour, mr.TTL("traveltime:1,2"))

	mr.FastForward(2 * time.Hour)
	got, err = c.GetMany(ctx, "1,2", []string{"3,4"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisTravelTimeCacheRejectsEmptyOrigin(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	_, err := c.GetMany(ctx, "", []string{"a"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(ctx, "", map[string]int{"a": 1}))
	assert.NoError(t, c.PutMany(ctx, "x", nil))
}
