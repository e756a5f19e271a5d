package distance

import (
	"collection-route-service/internal/domain"
	"context"
	"sync/atomic"
)

type MockPair struct {
	From, To domain.Coordinates
	Seconds  int
}

// MockOracle serves travel times from a fixed table. Pairs missing from the
// table are reported as unreachable; identical coordinates cost zero.
type MockOracle struct {
	m     map[string]int
	calls atomic.Int64
}

func NewMockOracle(pairs []MockPair) *MockOracle {
	m := make(map[string]int, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = p.Seconds
	}
	return &MockOracle{m: m}
}

func (p *MockOracle) FastestTravelTimeSeconds(ctx context.Context, origin, destination domain.Coordinates) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.calls.Add(1)

	if origin == destination {
		return 0, nil
	}
	s, ok := p.m[origin.Key()+"|"+destination.Key()]
	if !ok {
		return 0, &domain.UnreachableError{Origin: origin, Destination: destination}
	}

	return s, nil
}

// Calls reports how many queries were answered.
func (p *MockOracle) Calls() int { return int(p.calls.Load()) }
