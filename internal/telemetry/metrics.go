// Package telemetry exposes the service's prometheus metrics.
//
// All methods are safe on a nil *Metrics so components can run without telemetry.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "readiness"

// Metrics holds all prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	CacheDecisions     *prometheus.CounterVec
	QueryDuration      *prometheus.HistogramVec
	QueryStates        *prometheus.CounterVec
	ExplanationLookups *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	CachedRows         prometheus.Gauge
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		CacheDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "range_cache_decisions_total",
				Help:      "Range requests by how they were served (preset, window, remote).",
			},
			[]string{"decision"},
		),

		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_query_duration_seconds",
				Help:      "Wall time from submission to terminal state of remote queries.",
				Buckets:   []float64{0.5, 1, 2, 3, 5, 10, 20, 30, 60, 120},
			},
			[]string{"state"},
		),

		QueryStates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_queries_total",
				Help:      "Remote queries by final state.",
			},
			[]string{"state"},
		),

		ExplanationLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "explanation_lookups_total",
				Help:      "Explanation lookups by outcome (cache, remote, stale, not_found, error).",
			},
			[]string{"outcome"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route pattern and status.",
			},
			[]string{"route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request durations by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		CachedRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "range_cache_rows",
				Help:      "Rows currently held by the range cache.",
			},
		),
	}

	m.registry.MustRegister(
		m.CacheDecisions,
		m.QueryDuration,
		m.QueryStates,
		m.ExplanationLookups,
		m.HTTPRequests,
		m.HTTPDuration,
		m.CachedRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheDecision counts how a range request was served.
func (m *Metrics) CacheDecision(decision string) {
	if m == nil {
		return
	}
	m.CacheDecisions.WithLabelValues(decision).Inc()
}

// SetCachedRows records the current range cache size.
func (m *Metrics) SetCachedRows(n int) {
	if m == nil {
		return
	}
	m.CachedRows.Set(float64(n))
}

// ObserveQuery records a remote query reaching a final state.
func (m *Metrics) ObserveQuery(state string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QueryStates.WithLabelValues(state).Inc()
	m.QueryDuration.WithLabelValues(state).Observe(elapsed.Seconds())
}

// ExplanationLookup counts an explanation lookup outcome.
func (m *Metrics) ExplanationLookup(outcome string) {
	if m == nil {
		return
	}
	m.ExplanationLookups.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
