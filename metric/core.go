// Package metric defines the Prometheus instrumentation for the
// structure generator: session lifecycle, export activity and catalog
// lookups, exposed through a dedicated registry.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all service-level metrics.
type Metrics struct {
	SessionsActive   prometheus.Gauge
	SessionsCreated  prometheus.Counter
	SessionEvictions prometheus.Counter

	ExportsTotal   *prometheus.CounterVec
	ExportDuration prometheus.Histogram

	LookupRequests *prometheus.CounterVec
	LookupFailures *prometheus.CounterVec

	SnapshotOperations *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with all service metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "structgen",
				Subsystem: "sessions",
				Name:      "active",
				Help:      "Number of live editor sessions",
			},
		),

		SessionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "sessions",
				Name:      "created_total",
				Help:      "Total number of sessions created",
			},
		),

		SessionEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "sessions",
				Name:      "evictions_total",
				Help:      "Total number of sessions evicted after idling past the timeout",
			},
		),

		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "exports",
				Name:      "total",
				Help:      "Total number of Turtle exports",
			},
			[]string{"status"},
		),

		ExportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "structgen",
				Subsystem: "exports",
				Name:      "duration_seconds",
				Help:      "Turtle export duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		LookupRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "lookup",
				Name:      "requests_total",
				Help:      "Total number of catalog lookup requests",
			},
			[]string{"operation"},
		),

		LookupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "lookup",
				Name:      "failures_total",
				Help:      "Total number of failed catalog lookups",
			},
			[]string{"operation"},
		),

		SnapshotOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "snapshots",
				Name:      "operations_total",
				Help:      "Total number of snapshot store operations",
			},
			[]string{"operation", "status"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structgen",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "structgen",
				Subsystem: "http",
				Name:      "duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// RecordExport records one export attempt with its outcome and
// duration.
func (m *Metrics) RecordExport(status string, duration time.Duration) {
	m.ExportsTotal.WithLabelValues(status).Inc()
	m.ExportDuration.Observe(duration.Seconds())
}

// RecordLookup records one catalog lookup attempt.
func (m *Metrics) RecordLookup(operation string, failed bool) {
	m.LookupRequests.WithLabelValues(operation).Inc()
	if failed {
		m.LookupFailures.WithLabelValues(operation).Inc()
	}
}

// RecordSnapshotOperation records one snapshot store operation.
func (m *Metrics) RecordSnapshotOperation(operation, status string) {
	m.SnapshotOperations.WithLabelValues(operation, status).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}
