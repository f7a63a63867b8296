// Package metrics collects Prometheus metrics for a running Weaver
// server: registry size, propagation latency, suspense-pending gauges,
// and deferred-completion counts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures where and under what names metrics are registered.
type Config struct {
	// Namespace is the metrics namespace (default: "weaver").
	Namespace string

	// Registry is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

func defaultConfig() Config {
	return Config{Namespace: "weaver", Registry: prometheus.DefaultRegisterer}
}

// Option configures a Config.
type Option func(*Config)

// WithNamespace overrides the metrics namespace.
func WithNamespace(ns string) Option {
	return func(c *Config) { c.Namespace = ns }
}

// WithRegistry overrides the Prometheus registerer.
func WithRegistry(r prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = r }
}

// Collector holds every metric a Weaver server exports.
type Collector struct {
	activeSessions       prometheus.Gauge
	registrySize         *prometheus.GaugeVec
	propagationLatency   prometheus.Histogram
	suspensePending      prometheus.Gauge
	deferredCompletions  *prometheus.CounterVec
	executeRequestsTotal *prometheus.CounterVec
	liveEventsTotal      *prometheus.CounterVec
}

// New creates and registers a Collector.
func New(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active_sessions",
			Help:      "Number of active live websocket sessions.",
		}),
		registrySize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "registry_signals",
			Help:      "Number of signal definitions held by a registry, by session id.",
		}, []string{"session_id"}),
		propagationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "propagation_duration_seconds",
			Help:      "Time to fan an event out through the propagation engine, per event.",
			Buckets:   prometheus.DefBuckets,
		}),
		suspensePending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "suspense_pending",
			Help:      "Number of suspense boundaries currently resolved as pending.",
		}),
		deferredCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "deferred_completions_total",
			Help:      "Total deferred completions delivered, by outcome.",
		}, []string{"outcome"}),
		executeRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "execute_requests_total",
			Help:      "Total POST /weaver/execute requests, by status.",
		}, []string{"status"}),
		liveEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "live_events_total",
			Help:      "Total live-channel events processed, by kind.",
		}, []string{"kind"}),
	}
}

// SessionCreated records a new live session.
func (c *Collector) SessionCreated() { c.activeSessions.Inc() }

// SessionClosed records a live session ending.
func (c *Collector) SessionClosed() { c.activeSessions.Dec() }

// RegistrySize records how many definitions a session's registry holds.
func (c *Collector) RegistrySize(sessionID string, n int) {
	c.registrySize.WithLabelValues(sessionID).Set(float64(n))
}

// ObservePropagation records how long one Process call took.
func (c *Collector) ObservePropagation(d time.Duration) {
	c.propagationLatency.Observe(d.Seconds())
}

// SetSuspensePending sets the current count of pending suspense boundaries.
func (c *Collector) SetSuspensePending(n int) { c.suspensePending.Set(float64(n)) }

// DeferredCompletion records a deferred completion resolving, ok or error.
func (c *Collector) DeferredCompletion(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.deferredCompletions.WithLabelValues(outcome).Inc()
}

// ExecuteRequest records one /weaver/execute request's resulting status.
func (c *Collector) ExecuteRequest(status string) {
	c.executeRequestsTotal.WithLabelValues(status).Inc()
}

// LiveEvent records one live-channel event by kind.
func (c *Collector) LiveEvent(kind string) {
	c.liveEventsTotal.WithLabelValues(kind).Inc()
}
