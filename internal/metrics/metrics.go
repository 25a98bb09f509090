// Package metrics exposes Prometheus instruments for the scheduling core.
package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "staffing"

type metrics struct {
	conflicts        *prometheus.CounterVec
	versionConflicts *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	bulkItems        *prometheus.CounterVec
	events           *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		conflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_total",
			Help:      "Business-rule conflicts detected, by kind (date_range, lead).",
		}, []string{"kind"}),
		versionConflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflicts_total",
			Help:      "Optimistic concurrency rejections, by entity.",
		}, []string{"entity"}),
		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Applied status transitions, by entity and target status.",
		}, []string{"entity", "from", "to"}),
		bulkItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_items_total",
			Help:      "Items processed by bulk operations, by operation and result.",
		}, []string{"operation", "result"}),
		events: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker, by type and result.",
		}, []string{"type", "result"}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets: []float64{
				0.001, 0.005, 0.01,
				0.025, 0.05, 0.1,
				0.25, 0.5, 1, 2.5, 5,
			},
		}, []string{"route", "method"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// Conflict kinds.
const (
	ConflictDateRange = "date_range"
	ConflictLead      = "lead"
)

// Bulk results.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
)

// RecordConflict counts a detected business-rule conflict.
func RecordConflict(kind string) {
	getMetrics().conflicts.WithLabelValues(kind).Inc()
}

// RecordVersionConflict counts a stale-version rejection.
func RecordVersionConflict(entity string) {
	getMetrics().versionConflicts.WithLabelValues(entity).Inc()
}

// RecordTransition counts an applied status transition.
func RecordTransition(entity, from, to string) {
	getMetrics().transitions.WithLabelValues(entity, from, to).Inc()
}

// RecordBulkItem counts one item of a bulk operation.
func RecordBulkItem(operation, result string) {
	getMetrics().bulkItems.WithLabelValues(operation, result).Inc()
}

// RecordEvent counts a publish attempt.
func RecordEvent(eventType string, err error) {
	result := ResultSucceeded
	if err != nil {
		result = ResultFailed
	}
	getMetrics().events.WithLabelValues(eventType, result).Inc()
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method, code string, seconds float64) {
	m := getMetrics()
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(seconds)
}

// Handler serves the default Prometheus registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
