package roadgraph

import (
	"collection-route-service/internal/domain"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds 1 <-> 2 <-> 3 plus a oneway 3 -> 4 and an isolated vertex 5.
func line(t *testing.T) *Graph {
	t.Helper()

	nodes := []Node{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0, Lon: 0.01},
		{ID: 3, Lat: 0, Lon: 0.02},
		{ID: 4, Lat: 0, Lon: 0.03},
		{ID: 5, Lat: 1, Lon: 1},
	}
	edges := []Edge{
		{From: 1, To: 2, Meters: 1000, Seconds: 100},
		{From: 2, To: 1, Meters: 1000, Seconds: 100},
		{From: 2, To: 3, Meters: 1000, Seconds: 120},
		{From: 3, To: 2, Meters: 1000, Seconds: 120},
		{From: 3, To: 4, Meters: 900, Seconds: 60.4},
		// slower duplicate of 1->2 is ignored
		{From: 1, To: 2, Meters: 800, Seconds: 300},
	}

	g, err := New(nodes, edges)
	require.NoError(t, err)
	return g
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyGraph)

	_, err = New([]Node{{ID: 1}, {ID: 1}}, nil)
	assert.Error(t, err)

	_, err = New([]Node{{ID: 1}}, []Edge{{From: 1, To: 2}})
	assert.Error(t, err)
}

func TestNearestSnapsToClosestVertex(t *testing.T) {
	g := line(t)

	n, err := g.Nearest(domain.Coordinates{Lat: 0.001, Lon: 0.0101})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.ID)
}

func TestOracleTravelTimes(t *testing.T) {
	o := NewOracle(line(t))
	ctx := context.Background()

	a := domain.Coordinates{Lat: 0, Lon: 0}
	c := domain.Coordinates{Lat: 0, Lon: 0.02}
	d := domain.Coordinates{Lat: 0, Lon: 0.03}

	secs, err := o.FastestTravelTimeSeconds(ctx, a, c)
	require.NoError(t, err)
	assert.Equal(t, 220, secs)

	secs, err = o.FastestTravelTimeSeconds(ctx, a, a)
	require.NoError(t, err)
	assert.Equal(t, 0, secs)

	row, err := o.FastestTravelTimesFrom(ctx, a, []domain.Coordinates{c, d})
	require.NoError(t, err)
	assert.Equal(t, []int{220, 280}, row)

	meters, err := o.ShortestDistanceMeters(ctx, a, c)
	require.NoError(t, err)
	assert.Equal(t, 1800, meters)
}

func TestOracleUnreachable(t *testing.T) {
	o := NewOracle(line(t))
	ctx := context.Background()

	// oneway 3 -> 4 has no way back
	_, err := o.FastestTravelTimeSeconds(ctx, domain.Coordinates{Lat: 0, Lon: 0.03}, domain.Coordinates{Lat: 0, Lon: 0})
	var unreachable *domain.UnreachableError
	require.True(t, errors.As(err, &unreachable), "got %v", err)

	_, err = o.FastestTravelTimeSeconds(ctx, domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 1})
	assert.True(t, errors.As(err, &unreachable))
}

func TestOracleFastestPath(t *testing.T) {
	o := NewOracle(line(t))

	p, err := o.FastestPath(context.Background(), domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 0.03})
	require.NoError(t, err)
	assert.Equal(t, []domain.Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.01},
		{Lat: 0, Lon: 0.02},
		{Lat: 0, Lon: 0.03},
	}, p)
}

func TestOracleHonoursCancelledContext(t *testing.T) {
	o := NewOracle(line(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.FastestTravelTimeSeconds(ctx, domain.Coordinates{}, domain.Coordinates{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := line(t)
	path := filepath.Join(t.TempDir(), "nested", "graph.gob")

	require.NoError(t, Save(path, g))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, g.NodeCount(), loaded.NodeCount())
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())

	secs, err := NewOracle(loaded).FastestTravelTimeSeconds(context.Background(),
		domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 0.03})
	require.NoError(t, err)
	assert.Equal(t, 280, secs)
}

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="50.9800" lon="7.1100"/>
  <node id="2" lat="50.9810" lon="7.1100"/>
  <node id="3" lat="50.9820" lon="7.1100"/>
  <node id="4" lat="50.9820" lon="7.1120"/>
  <node id="9" lat="52.0000" lon="9.0000"/>
  <way id="100">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="101">
    <nd ref="3"/><nd ref="4"/>
    <tag k="highway" v="tertiary"/>
    <tag k="oneway" v="yes"/>
    <tag k="maxspeed" v="50"/>
  </way>
  <way id="102">
    <nd ref="1"/><nd ref="4"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="103">
    <nd ref="4"/><nd ref="9"/>
    <tag k="highway" v="primary"/>
  </way>
</osm>`

func TestBuildFromOSM(t *testing.T) {
	opts := BuildOptions{Center: domain.Coordinates{Lat: 50.981, Lon: 7.111}, RadiusMeters: 2000}

	g, err := BuildFromOSM(context.Background(), strings.NewReader(sampleOSM), false, opts)
	require.NoError(t, err)

	// node 9 lies outside the radius, footway is not drivable
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 5, g.EdgeCount())

	o := NewOracle(g)
	ctx := context.Background()
	n1 := domain.Coordinates{Lat: 50.98, Lon: 7.11}
	n4 := domain.Coordinates{Lat: 50.982, Lon: 7.112}

	secs, err := o.FastestTravelTimeSeconds(ctx, n1, n4)
	require.NoError(t, err)
	assert.Greater(t, secs, 0)

	_, err = o.FastestTravelTimeSeconds(ctx, n4, n1)
	var unreachable *domain.UnreachableError
	assert.True(t, errors.As(err, &unreachable))
}

func TestLoadOrBuildWritesCache(t *testing.T) {
	dir := t.TempDir()
	osmPath := filepath.Join(dir, "extract.osm")
	cachePath := filepath.Join(dir, "graph.gob")
	require.NoError(t, os.WriteFile(osmPath, []byte(sampleOSM), 0o644))

	g, err := LoadOrBuild(context.Background(), cachePath, osmPath, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, g.NodeCount())

	cached, err := Load(cachePath)
	require.NoError(t, err)
	assert.Equal(t, g.EdgeCount(), cached.EdgeCount())
}

func TestOracleEvictsLeastRecentlyUsedTrees(t *testing.T) {
	o := NewOracle(line(t), WithTreeLimit(2))
	ctx := context.Background()

	v1 := domain.Coordinates{Lat: 0, Lon: 0}
	v2 := domain.Coordinates{Lat: 0, Lon: 0.01}
	v3 := domain.Coordinates{Lat: 0, Lon: 0.02}

	for _, origin := range []domain.Coordinates{v1, v2, v1, v3} {
		_, err := o.FastestTravelTimeSeconds(ctx, origin, v3)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, o.cachedTrees())
	assert.Contains(t, o.trees, treeKey{origin: 1})
	assert.Contains(t, o.trees, treeKey{origin: 3})
	assert.NotContains(t, o.trees, treeKey{origin: 2})

	// evicted origins are recomputed
	secs, err := o.FastestTravelTimeSeconds(ctx, v2, v3)
	require.NoError(t, err)
	assert.Equal(t, 120, secs)
	assert.Equal(t, 2, o.cachedTrees())
}

func TestFingerprintTracksContent(t *testing.T) {
	g := line(t)
	assert.Equal(t, g.Fingerprint(), line(t).Fingerprint())
	assert.Equal(t, "graph:"+g.Fingerprint(), NewOracle(g).CacheNamespace())

	nodes := []Node{{ID: 2, Lat: 0, Lon: 0.01}, {ID: 1, Lat: 0, Lon: 0}}
	edges := []Edge{{From: 1, To: 2, Meters: 1000, Seconds: 100}, {From: 2, To: 1, Meters: 1000, Seconds: 100}}
	a, err := New(nodes, edges)
	require.NoError(t, err)
	b, err := New([]Node{nodes[1], nodes[0]}, []Edge{edges[1], edges[0]})
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "input order must not matter")

	edges[0].Seconds = 90
	c, err := New(nodes, edges)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	path := filepath.Join(t.TempDir(), "graph.gob")
	require.NoError(t, Save(path, g))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, g.Fingerprint(), loaded.Fingerprint())
}
