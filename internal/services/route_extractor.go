package services

import (
	"collection-route-service/internal/domain"
	"errors"
)

// FlattenRoutes concatenates the used routes in vehicle order into one
// node sequence. Depot-only routes are dropped and the depot shared by two
// consecutive routes appears once, so the result starts and ends with a
// single depot and every inner depot is a genuine return between stops.
// A solution without stops flattens to an empty sequence.
func FlattenRoutes(solution *domain.Solution, n int) ([]int, error) {
	if solution == nil {
		return nil, errors.New("flatten routes: solution is nil")
	}

	for _, r := range solution.Routes {
		for _, node := range r.Nodes {
			if node < 0 || node > n {
				return nil, &domain.IndexOutOfRangeError{Index: node, Max: n}
			}
		}
	}

	out := make([]int, 0, n+2*len(solution.Routes))
	for _, r := range solution.Routes {
		if !r.Used() {
			continue
		}
		for _, node := range r.Nodes {
			last := len(out) - 1
			if node == domain.DepotNode && last >= 0 && out[last] == domain.DepotNode {
				continue
			}
			out = append(out, node)
		}
	}

	return out, nil
}

// ExtractTour maps the flattened node sequence back to coordinates:
// the depot index to depot, index i to points[i-1].
func ExtractTour(solution *domain.Solution, points []domain.PickupPoint, depot domain.Coordinates) ([]domain.Coordinates, error) {
	nodes, err := FlattenRoutes(solution, len(points))
	if err != nil {
		return nil, err
	}

	tour := make([]domain.Coordinates, len(nodes))
	for k, node := range nodes {
		if node == domain.DepotNode {
			tour[k] = depot
			continue
		}
		tour[k] = points[node-1].Coordinates
	}
	return tour, nil
}
