package roadgraph

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// fingerprint hashes vertices by id and edges by endpoints and weights,
// independent of input order.
func fingerprint(nodes map[int64]Node, edges []Edge) string {
	ids := make([]int64, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	sorted := slices.Clone(edges)
	slices.SortFunc(sorted, func(a, b Edge) int {
		return cmp.Or(
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.To, b.To),
			cmp.Compare(a.Seconds, b.Seconds),
			cmp.Compare(a.Meters, b.Meters),
		)
	})

	h := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}

	for _, id := range ids {
		n := nodes[id]
		put(uint64(id))
		put(math.Float64bits(n.Lat))
		put(math.Float64bits(n.Lon))
	}
	for _, e := range sorted {
		put(uint64(e.From))
		put(uint64(e.To))
		put(math.Float64bits(e.Seconds))
		put(math.Float64bits(e.Meters))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Fingerprint identifies the graph content. Two graphs with the same vertices
// and weighted edges share a fingerprint.
func (g *Graph) Fingerprint() string { return g.fingerprint }
