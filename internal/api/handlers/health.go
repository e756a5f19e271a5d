package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health returns a liveness handler that also reports process uptime.
func Health(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		writeJSON(w, r, http.StatusOK, healthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(started) / time.Second),
		})
	}
}
