package api

import (
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/platform/obs"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags the request with an id, then logs and counts it.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, id := obs.WithRequestID(r.Context())
		w.Header().Set("X-Request-ID", id)

		sw := &statusWriter{
			ResponseWriter: w,
			status:         0,
		}

		req := r.WithContext(ctx)
		next.ServeHTTP(sw, req)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}

		metrics.HTTPRequests.WithLabelValues(r.Method, routeLabel(req), strconv.Itoa(sw.status)).Inc()

		log.WithFields(log.Fields{
			"req_id": id,
			"method": r.Method,
			"path":   r.URL.RequestURI(),
			"status": sw.status,
			"bytes":  sw.bytes,
			"dur_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}

// routeLabel is the ServeMux pattern that served req, or "other" for
// unmatched paths, keeping the metric label set bounded.
func routeLabel(req *http.Request) string {
	if req.Pattern == "" {
		return "other"
	}
	return req.Pattern
}
