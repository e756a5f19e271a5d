package domain

// Index of the depot in every node index space.
const DepotNode = 0

// DistanceMatrix holds travel times in seconds between nodes.
// Row/column 0 is the depot; 1..N are active pickup points in selection order.
// It is not assumed symmetric but its diagonal is always zero.
type DistanceMatrix [][]int

// Size returns the number of nodes including the depot.
func (m DistanceMatrix) Size() int { return len(m) }

// Valid reports whether the matrix is square with a zero diagonal and no negative entries.
func (m DistanceMatrix) Valid() bool {
	n := len(m)
	for i, row := range m {
		if len(row) != n || row[i] != 0 {
			return false
		}
		for _, v := range row {
			if v < 0 {
				return false
			}
		}
	}
	return true
}

// Route is the ordered node sequence of one vehicle.
// It begins and ends at the depot; a vehicle that is not used has
// the trivial route [0, 0].
type Route struct {
	Vehicle int
	Nodes   []int
	Load    int
	Seconds int
}

// Stops returns the non-depot nodes of the route.
func (r Route) Stops() []int {
	out := make([]int, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		if n != DepotNode {
			out = append(out, n)
		}
	}
	return out
}

// Used reports whether the vehicle visits at least one pickup point.
func (r Route) Used() bool {
	for _, n := range r.Nodes {
		if n != DepotNode {
			return true
		}
	}
	return false
}

// Solution is a set of exactly one route per vehicle.
// Every pickup node appears in exactly one route exactly once.
type Solution struct {
	Routes []Route
	Cost   int
}

// TotalLoad sums the loads of all routes.
func (s *Solution) TotalLoad() int {
	total := 0
	for _, r := range s.Routes {
		total += r.Load
	}
	return total
}

// UsedVehicles counts the routes that visit at least one pickup point.
func (s *Solution) UsedVehicles() int {
	used := 0
	for _, r := range s.Routes {
		if r.Used() {
			used++
		}
	}
	return used
}
