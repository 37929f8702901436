package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LoaderMetrics collects Prometheus metrics for configuration loads.
// It implements the loader.Observer interface.
type LoaderMetrics struct {
	registry *prometheus.Registry

	loadsTotal        *prometheus.CounterVec
	loadDuration      prometheus.Histogram
	sourcesResolved   *prometheus.CounterVec
	protocolsResolved *prometheus.CounterVec
	reloadsTotal      *prometheus.CounterVec
}

// NewLoaderMetrics creates and registers the loader metric set. If
// registry is nil a private registry is created.
func NewLoaderMetrics(namespace string, registry *prometheus.Registry) *LoaderMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "strata"
	}

	m := &LoaderMetrics{
		registry: registry,

		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total configuration load calls by outcome.",
		}, []string{"status"}),

		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of configuration load calls.",
			// Loads are dominated by file reads and the occasional
			// provider or exec handler.
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		sourcesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_resolved_total",
			Help:      "Resolved configuration sources by variant.",
		}, []string{"kind"}),

		protocolsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_resolutions_total",
			Help:      "Successful protocol handler invocations by protocol.",
		}, []string{"protocol"}),

		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_reloads_total",
			Help:      "Watcher-triggered reloads by outcome.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.loadsTotal,
		m.loadDuration,
		m.sourcesResolved,
		m.protocolsResolved,
		m.reloadsTotal,
	)
	return m
}

// LoadStarted implements loader.Observer.
func (m *LoaderMetrics) LoadStarted(path, environment string) {}

// LoadFinished implements loader.Observer.
func (m *LoaderMetrics) LoadFinished(path string, duration time.Duration, err error) {
	m.loadsTotal.WithLabelValues(statusLabel(err)).Inc()
	m.loadDuration.Observe(duration.Seconds())
}

// SourceResolved implements loader.Observer.
func (m *LoaderMetrics) SourceResolved(kind string) {
	m.sourcesResolved.WithLabelValues(kind).Inc()
}

// ProtocolResolved implements loader.Observer.
func (m *LoaderMetrics) ProtocolResolved(name string) {
	m.protocolsResolved.WithLabelValues(name).Inc()
}

// RecordReload counts one watcher-triggered reload.
func (m *LoaderMetrics) RecordReload(err error) {
	m.reloadsTotal.WithLabelValues(statusLabel(err)).Inc()
}

// Registry returns the underlying Prometheus registry.
func (m *LoaderMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metric set.
func (m *LoaderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
