package obs

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID attaches a fresh run/request id unless one is already present.
func WithRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return context.WithValue(ctx, RequestIDKey, id), id
}

// RequestID returns the id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Logger returns an entry pre-populated with the request id.
func Logger(ctx context.Context) *log.Entry {
	return log.WithField("req_id", RequestID(ctx))
}

func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	entry := Logger(ctx).WithField("op", name)

	return func(errp *error) {
		entry = entry.WithField("dur_ms", time.Since(start).Milliseconds())

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation done")
	}
}
