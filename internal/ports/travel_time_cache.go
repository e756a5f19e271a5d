package ports

import "context"

// Persistent cache of origin -> destination travel times keyed by coordinate keys.
type TravelTimeCache interface {
	// Fetch cached travel times for one origin and many destinations.
	// Missing destinations are absent from the returned map.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]int, error)
	// Store travel times for a single origin.
	PutMany(ctx context.Context, origin string, results map[string]int) error
}
