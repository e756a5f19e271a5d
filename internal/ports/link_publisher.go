package ports

import "context"

// Port: delivers a generated map link to whoever dispatches the tour.
type LinkPublisher interface {
	Publish(ctx context.Context, link string) error
}
