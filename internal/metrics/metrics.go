// Package metrics provides Prometheus metrics for the survey backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal tracks served HTTP requests by method, route
	// pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survey_studio",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks request handling duration in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "survey_studio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP request handling in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// ResponsesSubmitted tracks accepted survey submissions per instance.
	ResponsesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survey_studio",
			Subsystem: "responses",
			Name:      "submitted_total",
			Help:      "Total number of accepted survey submissions",
		},
		[]string{"instance_id"},
	)
)

// RecordSubmission records an accepted survey submission.
func RecordSubmission(instanceID string) {
	ResponsesSubmitted.WithLabelValues(instanceID).Inc()
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware observes request count and duration. The route label uses
// the mux pattern when available so cardinality stays bounded.
func Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}
