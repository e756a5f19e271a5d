package services

import (
	"collection-route-service/internal/domain"
	"context"
	"math"
	"slices"
	"time"
)

// Share of the average arc cost added per penalty unit.
const glsAlpha = 0.2

// search runs guided local search over stop sequences. Moves are accepted
// on augmented cost (travel time plus lambda times arc penalty) while the
// best solution is tracked on real travel time. Every accepted move keeps
// all routes within capacity.
type search struct {
	ctx       context.Context
	deadline  time.Time
	maxPasses int

	m        domain.DistanceMatrix
	demands  []int
	capacity int

	seqs      [][]int
	loads     []int
	penalties [][]int
	lambda    int

	best     [][]int
	bestCost int

	evals   int
	expired bool
	stats   SolveStats
}

func newSearch(
	ctx context.Context,
	m domain.DistanceMatrix,
	demands []int,
	capacity int,
	start [][]int,
	deadline time.Time,
	maxPasses int,
) *search {
	s := &search{
		ctx:       ctx,
		deadline:  deadline,
		maxPasses: maxPasses,
		m:         m,
		demands:   demands,
		capacity:  capacity,
		seqs:      cloneSeqs(start),
		loads:     make([]int, len(start)),
		penalties: make([][]int, m.Size()),
	}
	for i := range s.penalties {
		s.penalties[i] = make([]int, m.Size())
	}
	for v, seq := range s.seqs {
		for _, n := range seq {
			s.loads[v] += demands[n]
		}
	}

	s.best = cloneSeqs(start)
	s.bestCost = s.realCost()

	arcs := 0
	for _, seq := range s.seqs {
		if len(seq) > 0 {
			arcs += len(seq) + 1
		}
	}
	if arcs > 0 {
		s.lambda = max(1, int(math.Round(glsAlpha*float64(s.bestCost)/float64(arcs))))
	}
	return s
}

func (s *search) run() [][]int {
	if s.bestCost == 0 {
		return s.best
	}

	for !s.stop() {
		if s.maxPasses > 0 && s.stats.Passes >= s.maxPasses {
			break
		}
		s.stats.Passes++

		if !s.descend() {
			break
		}
		s.stats.LocalOptima++
		s.penalize()
	}

	return s.best
}

// stop reports whether the deadline passed or ctx is done. The clock is
// sampled every few evaluations; the result is sticky.
func (s *search) stop() bool {
	if s.expired {
		return true
	}
	s.evals++
	if s.evals%32 != 1 {
		return false
	}
	if s.ctx.Err() != nil || !time.Now().Before(s.deadline) {
		s.expired = true
	}
	return s.expired
}

// descend applies improving moves until none is left. It returns false
// when interrupted before reaching a local optimum.
func (s *search) descend() bool {
	for {
		improved, interrupted := s.relocate()
		if interrupted {
			return false
		}
		if improved {
			continue
		}

		improved, interrupted = s.swap()
		if interrupted {
			return false
		}
		if improved {
			continue
		}

		improved, interrupted = s.twoOpt()
		if interrupted {
			return false
		}
		if !improved {
			return true
		}
	}
}

func (s *search) aug(i, j int) int {
	return s.m[i][j] + s.lambda*s.penalties[i][j]
}

func (s *search) augCost(seq []int) int {
	return routeCost(seq, s.aug)
}

func (s *search) realCost() int {
	total := 0
	for _, seq := range s.seqs {
		total += routeCost(seq, func(i, j int) int { return s.m[i][j] })
	}
	return total
}

// accept installs new sequences for routes r and q (r may equal q) and
// records the solution if it beats the best real cost.
func (s *search) accept(r int, seqR []int, q int, seqQ []int) {
	s.seqs[r] = seqR
	s.seqs[q] = seqQ
	s.loads[r] = s.load(seqR)
	s.loads[q] = s.load(seqQ)
	s.stats.Moves++

	if c := s.realCost(); c < s.bestCost {
		s.bestCost = c
		s.best = cloneSeqs(s.seqs)
		s.stats.Improvements++
	}
}

func (s *search) load(seq []int) int {
	total := 0
	for _, n := range seq {
		total += s.demands[n]
	}
	return total
}

// relocate moves one node to another position, in its own route or
// another one with spare capacity.
func (s *search) relocate() (improved, interrupted bool) {
	for r := range s.seqs {
		oldR := s.augCost(s.seqs[r])

		for i, node := range s.seqs[r] {
			removed := slices.Delete(slices.Clone(s.seqs[r]), i, i+1)
			removedCost := s.augCost(removed)
			triedEmpty := false

			for q := range s.seqs {
				if q != r {
					if s.loads[q]+s.demands[node] > s.capacity {
						continue
					}
					// all empty routes are equivalent
					if len(s.seqs[q]) == 0 {
						if triedEmpty {
							continue
						}
						triedEmpty = true
					}
				}

				base := s.seqs[q]
				oldQ := s.augCost(base)
				if q == r {
					base = removed
				}

				for k := 0; k <= len(base); k++ {
					if s.stop() {
						return false, true
					}
					if q == r && k == i {
						continue
					}

					cand := slices.Insert(slices.Clone(base), k, node)
					var delta int
					if q == r {
						delta = s.augCost(cand) - oldR
					} else {
						delta = removedCost + s.augCost(cand) - oldR - oldQ
					}

					if delta < 0 {
						if q == r {
							s.accept(r, cand, r, cand)
						} else {
							s.accept(r, removed, q, cand)
						}
						return true, false
					}
				}
			}
		}
	}
	return false, false
}

// swap exchanges two nodes of different routes when both fit afterwards.
func (s *search) swap() (improved, interrupted bool) {
	for r := range s.seqs {
		for q := r + 1; q < len(s.seqs); q++ {
			if len(s.seqs[r]) == 0 || len(s.seqs[q]) == 0 {
				continue
			}
			old := s.augCost(s.seqs[r]) + s.augCost(s.seqs[q])

			for i, a := range s.seqs[r] {
				for j, b := range s.seqs[q] {
					if s.stop() {
						return false, true
					}
					da, db := s.demands[a], s.demands[b]
					if s.loads[r]-da+db > s.capacity || s.loads[q]-db+da > s.capacity {
						continue
					}

					candR := slices.Clone(s.seqs[r])
					candQ := slices.Clone(s.seqs[q])
					candR[i], candQ[j] = b, a

					if s.augCost(candR)+s.augCost(candQ)-old < 0 {
						s.accept(r, candR, q, candQ)
						return true, false
					}
				}
			}
		}
	}
	return false, false
}

// twoOpt reverses a sub-sequence of one route. Costs are recomputed over the
// whole route since the matrix may be asymmetric.
func (s *search) twoOpt() (improved, interrupted bool) {
	for r, seq := range s.seqs {
		if len(seq) < 2 {
			continue
		}
		old := s.augCost(seq)

		for i := 0; i < len(seq)-1; i++ {
			for j := i + 1; j < len(seq); j++ {
				if s.stop() {
					return false, true
				}
				cand := slices.Clone(seq)
				slices.Reverse(cand[i : j+1])

				if s.augCost(cand)-old < 0 {
					s.accept(r, cand, r, cand)
					return true, false
				}
			}
		}
	}
	return false, false
}

// penalize raises by one the penalty of every arc in the current solution
// whose utility cost/(1+penalty) is maximal.
func (s *search) penalize() {
	type arc struct{ i, j int }

	var arcs []arc
	for _, seq := range s.seqs {
		if len(seq) == 0 {
			continue
		}
		prev := domain.DepotNode
		for _, n := range seq {
			arcs = append(arcs, arc{prev, n})
			prev = n
		}
		arcs = append(arcs, arc{prev, domain.DepotNode})
	}

	bestUtil := -1.0
	var chosen []arc
	for _, a := range arcs {
		u := float64(s.m[a.i][a.j]) / float64(1+s.penalties[a.i][a.j])
		switch {
		case u > bestUtil:
			bestUtil = u
			chosen = append(chosen[:0], a)
		case u == bestUtil:
			chosen = append(chosen, a)
		}
	}

	for _, a := range chosen {
		s.penalties[a.i][a.j]++
	}
}

func cloneSeqs(seqs [][]int) [][]int {
	out := make([][]int, len(seqs))
	for i, seq := range seqs {
		out[i] = slices.Clone(seq)
	}
	return out
}
