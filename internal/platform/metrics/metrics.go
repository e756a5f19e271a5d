package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// PlanRuns counts planning runs by outcome (done, infeasible, error).
	PlanRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "collection_plan_runs_total", Help: "Planning runs by outcome."},
		[]string{"status"},
	)
	// MatrixBuildDuration records distance matrix construction time.
	MatrixBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "collection_matrix_build_seconds", Help: "Distance matrix build duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// SolveDuration records wall-clock time spent in the route solver.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "collection_solve_seconds", Help: "Route solver duration in seconds.", Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
	)
	// SolutionCost reports the last constructed and best tour cost in seconds.
	SolutionCost = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "collection_solution_cost_seconds", Help: "Tour cost of the last run by phase."},
		[]string{"phase"},
	)
	// LocalOptima counts guided local search local optima reached.
	LocalOptima = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "collection_gls_local_optima_total", Help: "Local optima reached by guided local search."},
	)
	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
)

var regOnce sync.Once

// Register adds the service collectors to Registry. Safe to call repeatedly.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(PlanRuns)
		Registry.MustRegister(MatrixBuildDuration)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SolutionCost)
		Registry.MustRegister(LocalOptima)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
