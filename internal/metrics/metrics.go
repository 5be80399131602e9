// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the server updates.
type Metrics struct {
	registry *prometheus.Registry

	Mutations     *prometheus.CounterVec
	Items         prometheus.Gauge
	Events        prometheus.Gauge
	Writes        prometheus.Counter
	WriteFailures prometheus.Counter
	WritesSkipped prometheus.Counter
	WriteBytes    prometheus.Histogram
	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry along
// with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "musemate",
			Name:      "store_mutations_total",
			Help:      "Store mutations that changed the state, by operation.",
		}, []string{"op"}),
		Items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "musemate",
			Name:      "store_items",
			Help:      "Items currently in the store.",
		}),
		Events: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "musemate",
			Name:      "store_events",
			Help:      "Events currently in the store.",
		}),
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "musemate",
			Name:      "persist_writes_total",
			Help:      "State snapshots written to storage.",
		}),
		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "musemate",
			Name:      "persist_write_failures_total",
			Help:      "State snapshots that failed to encode or save.",
		}),
		WritesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "musemate",
			Name:      "persist_writes_skipped_total",
			Help:      "Writes skipped because the payload was unchanged.",
		}),
		WriteBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "musemate",
			Name:      "persist_write_bytes",
			Help:      "Size of written state payloads.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "musemate",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "musemate",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Mutations, m.Items, m.Events,
		m.Writes, m.WriteFailures, m.WritesSkipped, m.WriteBytes,
		m.Requests, m.Latency,
	)
	return m
}

// ObserveMutation records a state change made by op.
func (m *Metrics) ObserveMutation(op string, items, events int) {
	m.Mutations.WithLabelValues(op).Inc()
	m.Items.Set(float64(items))
	m.Events.Set(float64(events))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
