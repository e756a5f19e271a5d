package roadgraph

import (
	"cmp"
	"collection-route-service/internal/domain"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	log "github.com/sirupsen/logrus"
)

// BuildOptions restricts the imported network to a disc around Center.
// RadiusMeters <= 0 keeps the whole extract.
type BuildOptions struct {
	Center       domain.Coordinates
	RadiusMeters float64
}

type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

type osmWay struct {
	nodes   []osm.NodeID
	highway string
	speed   float64
	oneway  int
}

// BuildFromOSMFile imports a .osm/.osm.xml or .pbf extract.
func BuildFromOSMFile(ctx context.Context, path string, opts BuildOptions) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("build road graph: open %q: %w", path, err)
	}
	defer f.Close()

	pbf := strings.HasSuffix(strings.ToLower(path), ".pbf")
	return BuildFromOSM(ctx, f, pbf, opts)
}

// BuildFromOSM parses an OSM stream into a drive network weighted by travel time.
// Edge speed comes from the maxspeed tag or the highway class default.
func BuildFromOSM(ctx context.Context, r io.Reader, pbf bool, opts BuildOptions) (*Graph, error) {
	var scanner osmScanner
	if pbf {
		scanner = osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	} else {
		scanner = osmxml.New(ctx, r)
	}
	defer scanner.Close()

	points := make(map[osm.NodeID]orb.Point)
	ways := make([]osmWay, 0, 1024)

	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			points[object.ID] = orb.Point{object.Lon, object.Lat}
		case *osm.Way:
			highway := object.Tags.Find("highway")
			if !Drivable(highway) {
				continue
			}
			switch object.Tags.Find("access") {
			case "no", "private":
				continue
			}
			ways = append(ways, osmWay{
				nodes:   object.Nodes.NodeIDs(),
				highway: highway,
				speed:   TravelSpeed(highway, object.Tags.Find("maxspeed")),
				oneway:  Oneway(highway, object.Tags.Find("oneway"), object.Tags.Find("junction")),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("build road graph: scan osm: %w", err)
	}

	center := opts.Center.Point()
	inside := func(p orb.Point) bool {
		return opts.RadiusMeters <= 0 || geo.Distance(center, p) <= opts.RadiusMeters
	}

	used := make(map[osm.NodeID]struct{})
	edges := make([]Edge, 0, len(ways)*4)
	for _, w := range ways {
		for i := 1; i < len(w.nodes); i++ {
			a, b := w.nodes[i-1], w.nodes[i]
			pa, okA := points[a]
			pb, okB := points[b]
			if !okA || !okB || !inside(pa) || !inside(pb) {
				continue
			}

			meters := geo.Distance(pa, pb)
			seconds := meters / (w.speed / 3.6)

			if w.oneway >= 0 {
				edges = append(edges, Edge{From: int64(a), To: int64(b), Meters: meters, Seconds: seconds})
			}
			if w.oneway <= 0 {
				edges = append(edges, Edge{From: int64(b), To: int64(a), Meters: meters, Seconds: seconds})
			}
			used[a] = struct{}{}
			used[b] = struct{}{}
		}
	}

	nodes := make([]Node, 0, len(used))
	for id := range used {
		p := points[id]
		nodes = append(nodes, Node{ID: int64(id), Lat: p.Lat(), Lon: p.Lon()})
	}
	slices.SortFunc(nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })

	log.WithFields(log.Fields{
		"ways":  len(ways),
		"nodes": len(nodes),
		"edges": len(edges),
	}).Info("road graph imported from osm")

	if len(nodes) == 0 {
		return nil, fmt.Errorf("build road graph: %w", domain.ErrEmptyGraph)
	}
	return New(nodes, edges)
}
