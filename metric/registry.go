package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the service metrics and the Prometheus registry they
// are registered with.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	metrics            *Metrics
}

// NewRegistry creates a registry with all service metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		prometheusRegistry: prometheus.NewRegistry(),
		metrics:            NewMetrics(),
	}

	r.prometheusRegistry.MustRegister(
		r.metrics.SessionsActive,
		r.metrics.SessionsCreated,
		r.metrics.SessionEvictions,
		r.metrics.ExportsTotal,
		r.metrics.ExportDuration,
		r.metrics.LookupRequests,
		r.metrics.LookupFailures,
		r.metrics.SnapshotOperations,
		r.metrics.HTTPRequests,
		r.metrics.HTTPDuration,
	)

	r.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Metrics returns the service metrics.
func (r *Registry) Metrics() *Metrics {
	return r.metrics
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
}
