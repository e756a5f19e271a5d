package services

import (
	"collection-route-service/internal/domain"
	"context"
	"fmt"
	"time"
)

type SolveStatus int

const (
	// StatusInfeasible means construction could not pack every node into
	// the fleet. It is a normal outcome, not an error.
	StatusInfeasible SolveStatus = iota
	StatusDone
)

func (s SolveStatus) String() string {
	switch s {
	case StatusInfeasible:
		return "infeasible"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("SolveStatus(%d)", int(s))
	}
}

type SolverOptions struct {
	// TimeBudget bounds the improvement phase (wall clock). Zero skips it.
	TimeBudget time.Duration
	// MaxPasses caps the number of local-search descents; 0 means no cap.
	MaxPasses int
}

type SolveStats struct {
	Passes       int
	Moves        int
	Improvements int
	LocalOptima  int
	Elapsed      time.Duration
}

type SolveResult struct {
	Status SolveStatus
	// Solution is the best solution found; nil when infeasible.
	Solution *domain.Solution
	// Constructed is the greedy starting solution; nil when infeasible.
	Constructed *domain.Solution
	Stats       SolveStats
}

// SolveCVRP partitions nodes 1..N into at most fleet.VehicleCount capacity
// feasible routes minimizing total travel time. A greedy nearest-feasible-arc
// construction is improved by guided local search until the time budget
// elapses, the pass cap is reached or ctx is done. The returned solution is
// never costlier than the constructed one.
func SolveCVRP(
	ctx context.Context,
	m domain.DistanceMatrix,
	demands []int,
	fleet domain.Fleet,
	opts SolverOptions,
) (*SolveResult, error) {
	if err := validateProblem(m, demands, fleet, opts); err != nil {
		return nil, err
	}

	start := time.Now()

	seqs, ok := construct(m, demands, fleet)
	if !ok {
		return &SolveResult{
			Status: StatusInfeasible,
			Stats:  SolveStats{Elapsed: time.Since(start)},
		}, nil
	}

	res := &SolveResult{
		Status:      StatusDone,
		Constructed: buildSolution(m, demands, seqs),
	}

	best := seqs
	if opts.TimeBudget > 0 && m.Size() > 1 {
		s := newSearch(ctx, m, demands, fleet.Capacity, seqs, start.Add(opts.TimeBudget), opts.MaxPasses)
		best = s.run()
		res.Stats = s.stats
	}

	res.Solution = buildSolution(m, demands, best)
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

func validateProblem(m domain.DistanceMatrix, demands []int, fleet domain.Fleet, opts SolverOptions) error {
	if err := fleet.Validate(); err != nil {
		return err
	}
	if m.Size() == 0 || !m.Valid() {
		return fmt.Errorf("solve cvrp: distance matrix must be square with zero diagonal and non-negative entries: %w", domain.ErrInvalidProblem)
	}
	if len(demands) != m.Size() {
		return fmt.Errorf("solve cvrp: %d demands for %d nodes: %w", len(demands), m.Size(), domain.ErrInvalidProblem)
	}
	if demands[domain.DepotNode] != 0 {
		return fmt.Errorf("solve cvrp: depot demand %d: %w", demands[domain.DepotNode], domain.ErrInvalidDemand)
	}
	for i, d := range demands {
		if d < 0 {
			return fmt.Errorf("solve cvrp: node %d demand %d: %w", i, d, domain.ErrInvalidDemand)
		}
	}
	if opts.TimeBudget < 0 {
		return fmt.Errorf("solve cvrp: negative time budget: %w", domain.ErrInvalidProblem)
	}
	return nil
}

// routeCost is the travel time of depot -> seq... -> depot under cost.
func routeCost(seq []int, cost func(i, j int) int) int {
	if len(seq) == 0 {
		return 0
	}
	total := cost(domain.DepotNode, seq[0])
	for k := 1; k < len(seq); k++ {
		total += cost(seq[k-1], seq[k])
	}
	return total + cost(seq[len(seq)-1], domain.DepotNode)
}

func buildSolution(m domain.DistanceMatrix, demands []int, seqs [][]int) *domain.Solution {
	sol := &domain.Solution{Routes: make([]domain.Route, len(seqs))}
	travel := func(i, j int) int { return m[i][j] }

	for v, seq := range seqs {
		nodes := make([]int, 0, len(seq)+2)
		nodes = append(nodes, domain.DepotNode)
		nodes = append(nodes, seq...)
		nodes = append(nodes, domain.DepotNode)

		load := 0
		for _, n := range seq {
			load += demands[n]
		}

		seconds := routeCost(seq, travel)
		sol.Routes[v] = domain.Route{Vehicle: v, Nodes: nodes, Load: load, Seconds: seconds}
		sol.Cost += seconds
	}
	return sol
}
