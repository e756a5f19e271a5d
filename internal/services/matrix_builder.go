package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type MatrixOptions struct {
	// Parallelism bounds concurrent row queries; <= 0 means 1.
	Parallelism int
	// Symmetric queries each unordered pair once and mirrors the result.
	// Only valid for direction-independent oracles.
	Symmetric bool
}

// BuildDistanceMatrix returns the (N+1)x(N+1) travel time matrix over
// {depot} ∪ points, depot at index 0. The diagonal is zero and never queried.
// Any oracle error aborts the whole build.
func BuildDistanceMatrix(
	ctx context.Context,
	depot domain.Coordinates,
	points []domain.PickupPoint,
	oracle ports.DistanceOracle,
	opts MatrixOptions,
) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "services.BuildDistanceMatrix")(&err)

	if oracle == nil {
		return nil, fmt.Errorf("build distance matrix: oracle is nil: %w", domain.ErrInvalidProblem)
	}

	locations := make([]domain.Coordinates, 0, len(points)+1)
	locations = append(locations, depot)
	for _, p := range points {
		locations = append(locations, p.Coordinates)
	}

	n := len(locations)
	m := make(domain.DistanceMatrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	if n == 1 {
		return m, nil
	}

	limit := opts.Parallelism
	if limit <= 0 {
		limit = 1
	}

	// Prefer a single origin->many lookup when supported to reduce oracle round trips.
	rowOracle, hasRows := oracle.(ports.DistanceRowOracle)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range n {
		targets := make([]int, 0, n-1)
		for j := range n {
			if j == i || (opts.Symmetric && j < i) {
				continue
			}
			targets = append(targets, j)
		}
		if len(targets) == 0 {
			continue
		}

		g.Go(func() error {
			row, err := queryRow(gctx, oracle, rowOracle, hasRows, locations, i, targets)
			if err != nil {
				return err
			}
			for k, j := range targets {
				m[i][j] = row[k]
				if opts.Symmetric {
					m[j][i] = row[k]
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}

	return m, nil
}

func queryRow(
	ctx context.Context,
	oracle ports.DistanceOracle,
	rowOracle ports.DistanceRowOracle,
	hasRows bool,
	locations []domain.Coordinates,
	origin int,
	targets []int,
) ([]int, error) {
	if hasRows {
		dests := make([]domain.Coordinates, len(targets))
		for k, j := range targets {
			dests[k] = locations[j]
		}
		row, err := rowOracle.FastestTravelTimesFrom(ctx, locations[origin], dests)
		if err != nil {
			return nil, err
		}
		if len(row) != len(targets) {
			return nil, fmt.Errorf("row from node %d: got %d values, want %d", origin, len(row), len(targets))
		}
		return row, nil
	}

	row := make([]int, len(targets))
	for k, j := range targets {
		s, err := oracle.FastestTravelTimeSeconds(ctx, locations[origin], locations[j])
		if err != nil {
			return nil, err
		}
		row[k] = s
	}
	return row, nil
}
