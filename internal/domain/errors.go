package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDemand  = errors.New("invalid demand")
	ErrInvalidProblem = errors.New("invalid routing problem")
	ErrEmptyGraph     = errors.New("road graph has no nodes")
)

// UnreachableError reports that no road path connects two coordinates.
type UnreachableError struct {
	Origin      Coordinates
	Destination Coordinates
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("no path from %s to %s", e.Origin, e.Destination)
}

// CapacityExceededError reports that total demand exceeds total fleet capacity.
// Shortfall = TotalDemand - TotalCapacity.
type CapacityExceededError struct {
	TotalDemand   int
	TotalCapacity int
	Shortfall     int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"total demand %d exceeds fleet capacity %d (shortfall=%d)",
		e.TotalDemand, e.TotalCapacity, e.Shortfall,
	)
}

// IndexOutOfRangeError reports a node index outside 0..Max.
// It always signals a bug between the solver and the extractor.
type IndexOutOfRangeError struct {
	Index int
	Max   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("node index %d out of range 0..%d", e.Index, e.Max)
}
