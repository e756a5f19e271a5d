package services

import (
	"collection-route-service/internal/domain"
)

// construct builds the starting solution by always taking the cheapest arc
// from the tail of an open route to an unrouted node that still fits.
// A new vehicle is opened only when no open route can absorb any node.
// Ties go to the lowest vehicle index, then the lowest node index.
// It returns one stop sequence per vehicle (depot excluded), or false when
// the nodes cannot be packed.
func construct(m domain.DistanceMatrix, demands []int, fleet domain.Fleet) ([][]int, bool) {
	n := m.Size() - 1
	for j := 1; j <= n; j++ {
		if demands[j] > fleet.Capacity {
			return nil, false
		}
	}

	seqs := make([][]int, fleet.VehicleCount)
	loads := make([]int, fleet.VehicleCount)
	routed := make([]bool, n+1)
	open := 1

	for remaining := n; remaining > 0; {
		bestV, bestJ, bestCost := -1, -1, 0

		for v := 0; v < open; v++ {
			tail := domain.DepotNode
			if len(seqs[v]) > 0 {
				tail = seqs[v][len(seqs[v])-1]
			}
			for j := 1; j <= n; j++ {
				if routed[j] || loads[v]+demands[j] > fleet.Capacity {
					continue
				}
				if bestV < 0 || m[tail][j] < bestCost {
					bestV, bestJ, bestCost = v, j, m[tail][j]
				}
			}
		}

		if bestV < 0 {
			if open == fleet.VehicleCount {
				return nil, false
			}
			open++
			continue
		}

		seqs[bestV] = append(seqs[bestV], bestJ)
		loads[bestV] += demands[bestJ]
		routed[bestJ] = true
		remaining--
	}

	return seqs, true
}
