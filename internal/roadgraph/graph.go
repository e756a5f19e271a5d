// Package roadgraph holds the weighted road network used to answer travel-time
// queries, along with its OSM import and on-disk persistence.
package roadgraph

import (
	"collection-route-service/internal/domain"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Node is a road network vertex.
type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

func (n Node) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: n.Lat, Lon: n.Lon}
}

// Edge is a directed road segment.
type Edge struct {
	From    int64
	To      int64
	Meters  float64
	Seconds float64
}

// Graph is an immutable directed road graph with two weightings
// (travel time and length) and a spatial index for nearest-node lookups.
// It is safe for concurrent reads.
type Graph struct {
	nodes  map[int64]Node
	edges  []Edge
	travel *simple.WeightedDirectedGraph
	length *simple.WeightedDirectedGraph
	index  *quadtree.Quadtree

	fingerprint string
}

type indexedNode struct {
	id    int64
	point orb.Point
}

func (n indexedNode) Point() orb.Point { return n.point }

// New builds a graph from nodes and edges. Edges referencing unknown nodes
// and self loops are rejected; parallel edges keep the cheapest weight per weighting.
func New(nodes []Node, edges []Edge) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, domain.ErrEmptyGraph
	}

	g := &Graph{
		nodes:  make(map[int64]Node, len(nodes)),
		edges:  make([]Edge, 0, len(edges)),
		travel: simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		length: simple.NewWeightedDirectedGraph(0, math.Inf(1)),
	}

	points := make(orb.MultiPoint, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := g.nodes[n.ID]; ok {
			return nil, fmt.Errorf("new road graph: duplicate node id %d", n.ID)
		}
		g.nodes[n.ID] = n
		g.travel.AddNode(simple.Node(n.ID))
		g.length.AddNode(simple.Node(n.ID))
		points = append(points, orb.Point{n.Lon, n.Lat})
	}

	g.index = quadtree.New(points.Bound())
	for _, n := range nodes {
		if err := g.index.Add(indexedNode{id: n.ID, point: orb.Point{n.Lon, n.Lat}}); err != nil {
			return nil, fmt.Errorf("new road graph: index node %d: %w", n.ID, err)
		}
	}

	for i, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, fmt.Errorf("new road graph: edge #%d references unknown node %d", i, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, fmt.Errorf("new road graph: edge #%d references unknown node %d", i, e.To)
		}
		if e.Seconds < 0 || e.Meters < 0 {
			return nil, fmt.Errorf("new road graph: edge #%d has negative weight", i)
		}
		if e.From == e.To {
			continue
		}

		g.edges = append(g.edges, e)
		setMin(g.travel, e.From, e.To, e.Seconds)
		setMin(g.length, e.From, e.To, e.Meters)
	}

	g.fingerprint = fingerprint(g.nodes, g.edges)
	return g, nil
}

func setMin(wg *simple.WeightedDirectedGraph, from, to int64, w float64) {
	if cur, ok := wg.Weight(from, to); ok && cur <= w {
		return
	}
	wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(from), simple.Node(to), w))
}

// NodeCount returns the number of vertices.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of directed segments (parallel edges included).
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the vertex with the given id.
func (g *Graph) Node(id int64) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nearest resolves a coordinate to the closest graph vertex.
func (g *Graph) Nearest(c domain.Coordinates) (Node, error) {
	found := g.index.Find(c.Point())
	if found == nil {
		return Node{}, domain.ErrEmptyGraph
	}
	return g.nodes[found.(indexedNode).id], nil
}

func (g *Graph) weighting(byLength bool) graph.Graph {
	if byLength {
		return g.length
	}
	return g.travel
}
