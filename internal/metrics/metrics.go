// Package metrics exposes Prometheus counters for HTTP traffic and solver outcomes.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woozymasta/geodesy/internal/vincenty"
)

const namespace = "geodesy"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "path"})

	// Solver metrics
	solverOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "outcomes_total",
		Help:      "Vincenty solutions by operation and outcome",
	}, []string{"op", "outcome"})

	solverIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "iterations",
		Help:      "Iterations used by converged Vincenty solutions",
		Buckets:   []float64{1, 2, 3, 4, 5, 10, 25, 50, 100, 200},
	}, []string{"op"})

	// FenceLookups counts geofence containment lookups, labelled inside or outside.
	FenceLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fence",
		Name:      "lookups_total",
		Help:      "Geofence containment lookups by result",
	}, []string{"result"})
)

// Solver outcome labels.
const (
	OutcomeConverged = "converged"
	OutcomeFailed    = "convergence_failure"
	OutcomeRejected  = "rejected"
)

// ObserveSolver records the outcome of one Vincenty solution.
func ObserveSolver(op string, iterations int, err error) {
	switch {
	case err == nil:
		solverOutcomes.WithLabelValues(op, OutcomeConverged).Inc()
		solverIterations.WithLabelValues(op).Observe(float64(iterations))
	case errors.Is(err, vincenty.ErrConvergenceFailure):
		solverOutcomes.WithLabelValues(op, OutcomeFailed).Inc()
	default:
		solverOutcomes.WithLabelValues(op, OutcomeRejected).Inc()
	}
}

// Middleware records request metrics. The path label is the matched ServeMux pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
