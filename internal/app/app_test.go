package app

import (
	"collection-route-service/internal/adapters/distance"
	"collection-route-service/internal/config"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/roadgraph"
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWithCachedGraphAndRedis(t *testing.T) {
	dir := t.TempDir()
	g, err := roadgraph.New(
		[]roadgraph.Node{{ID: 1, Lat: 0, Lon: 0}, {ID: 2, Lat: 0, Lon: 0.01}},
		[]roadgraph.Edge{{From: 1, To: 2, Meters: 1000, Seconds: 90}, {From: 2, To: 1, Meters: 1000, Seconds: 95}},
	)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Graph.CacheFile = filepath.Join(dir, "graph.gob")
	cfg.Graph.OSMFile = filepath.Join(dir, "missing.osm")
	require.NoError(t, roadgraph.Save(cfg.Graph.CacheFile, g))

	mr := miniredis.RunT(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.PublishURL = "http://localhost/route"

	deps, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Close()

	_, cached := deps.Oracle.(*distance.CachedOracle)
	assert.True(t, cached)
	assert.NotNil(t, deps.Publisher)

	secs, err := deps.Oracle.FastestTravelTimeSeconds(context.Background(),
		domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 0.01})
	require.NoError(t, err)
	assert.Equal(t, 90, secs)
	assert.NotEmpty(t, mr.Keys())
}

func TestBuildFailsWithoutGraph(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Graph.CacheFile = filepath.Join(dir, "graph.gob")
	cfg.Graph.OSMFile = filepath.Join(dir, "missing.osm")

	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}
