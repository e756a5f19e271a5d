package api

import (
	"collection-route-service/internal/api/handlers"
	"collection-route-service/internal/platform/metrics"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(points *handlers.PickupPointHandler, plans *handlers.PlanHandler) http.Handler {
	metrics.Register()

	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.Health(time.Now()))
	mux.HandleFunc("/pickup-points", points.List)
	mux.HandleFunc("/plans", plans.Plan)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
