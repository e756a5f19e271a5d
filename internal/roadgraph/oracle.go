package roadgraph

import (
	"collection-route-service/internal/domain"
	"container/list"
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// DefaultTreeLimit bounds the number of memoized shortest-path trees.
const DefaultTreeLimit = 256

// Oracle answers point-to-point queries against a Graph. Coordinates are
// snapped to the nearest vertex and single-source trees are memoized per
// origin vertex, so a matrix row costs one Dijkstra run. At most limit trees
// are kept; the least recently used one is evicted first.
type Oracle struct {
	g     *Graph
	limit int

	mu    sync.Mutex
	trees map[treeKey]*list.Element
	lru   *list.List
}

type treeKey struct {
	origin   int64
	byLength bool
}

type treeEntry struct {
	key  treeKey
	tree path.Shortest
}

type OracleOption func(*Oracle)

// WithTreeLimit caps memoized trees; n < 1 falls back to DefaultTreeLimit.
func WithTreeLimit(n int) OracleOption {
	return func(o *Oracle) {
		if n > 0 {
			o.limit = n
		}
	}
}

func NewOracle(g *Graph, opts ...OracleOption) *Oracle {
	o := &Oracle{
		g:     g,
		limit: DefaultTreeLimit,
		trees: make(map[treeKey]*list.Element),
		lru:   list.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Oracle) tree(origin int64, byLength bool) path.Shortest {
	key := treeKey{origin: origin, byLength: byLength}

	o.mu.Lock()
	if el, ok := o.trees[key]; ok {
		o.lru.MoveToFront(el)
		t := el.Value.(*treeEntry).tree
		o.mu.Unlock()
		return t
	}
	o.mu.Unlock()

	t := path.DijkstraFrom(simple.Node(origin), o.g.weighting(byLength))

	o.mu.Lock()
	defer o.mu.Unlock()
	if el, ok := o.trees[key]; ok {
		// computed concurrently by another caller
		o.lru.MoveToFront(el)
		return t
	}
	o.trees[key] = o.lru.PushFront(&treeEntry{key: key, tree: t})
	for o.lru.Len() > o.limit {
		oldest := o.lru.Back()
		o.lru.Remove(oldest)
		delete(o.trees, oldest.Value.(*treeEntry).key)
	}
	return t
}

// cachedTrees reports how many trees are memoized.
func (o *Oracle) cachedTrees() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lru.Len()
}

func (o *Oracle) query(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates, byLength bool) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, err := o.g.Nearest(origin)
	if err != nil {
		return nil, err
	}
	t := o.tree(from.ID, byLength)

	out := make([]int, len(destinations))
	for i, d := range destinations {
		to, err := o.g.Nearest(d)
		if err != nil {
			return nil, err
		}
		w := t.WeightTo(to.ID)
		if math.IsInf(w, 1) || math.IsNaN(w) {
			return nil, &domain.UnreachableError{Origin: origin, Destination: d}
		}
		out[i] = int(math.Round(w))
	}
	return out, nil
}

// CacheNamespace scopes cached travel times to this graph's content.
func (o *Oracle) CacheNamespace() string {
	return "graph:" + o.g.Fingerprint()
}

// FastestTravelTimeSeconds returns the minimal drive time in whole seconds.
func (o *Oracle) FastestTravelTimeSeconds(ctx context.Context, origin, destination domain.Coordinates) (int, error) {
	row, err := o.query(ctx, origin, []domain.Coordinates{destination}, false)
	if err != nil {
		return 0, err
	}
	return row[0], nil
}

// FastestTravelTimesFrom returns drive times from origin to every destination, in order.
func (o *Oracle) FastestTravelTimesFrom(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) ([]int, error) {
	return o.query(ctx, origin, destinations, false)
}

// ShortestDistanceMeters returns the length of the shortest road path in whole meters.
func (o *Oracle) ShortestDistanceMeters(ctx context.Context, origin, destination domain.Coordinates) (int, error) {
	row, err := o.query(ctx, origin, []domain.Coordinates{destination}, true)
	if err != nil {
		return 0, err
	}
	return row[0], nil
}

// FastestPath returns the vertex coordinates along the fastest path, origin
// and destination vertices included.
func (o *Oracle) FastestPath(ctx context.Context, origin, destination domain.Coordinates) ([]domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, err := o.g.Nearest(origin)
	if err != nil {
		return nil, err
	}
	to, err := o.g.Nearest(destination)
	if err != nil {
		return nil, err
	}

	nodes, w := o.tree(from.ID, false).To(to.ID)
	if len(nodes) == 0 || math.IsInf(w, 1) {
		return nil, &domain.UnreachableError{Origin: origin, Destination: destination}
	}

	out := make([]domain.Coordinates, 0, len(nodes))
	for _, n := range nodes {
		v, _ := o.g.Node(n.ID())
		out = append(out, v.Coordinates())
	}
	return out, nil
}
