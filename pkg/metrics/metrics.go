// Package metrics holds the Prometheus collectors shared by the API, the
// catalog and the activity tracker, registered on a private registry and
// exposed via an HTTP /metrics handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carhub"

// DefaultBuckets are the default histogram buckets (in seconds).
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Registry groups every collector the services update. A nil *Registry is
// valid and records nothing, so components can take one optionally.
type Registry struct {
	reg *prometheus.Registry

	// Resolutions counts catalog reads by operation, status and data source.
	Resolutions *prometheus.CounterVec
	// RemoteLatency observes remote store calls by operation.
	RemoteLatency *prometheus.HistogramVec
	// BreakerState is 0 closed, 1 open, 2 half-open.
	BreakerState prometheus.Gauge
	// StoreOps counts garage store operations by store, action and outcome.
	StoreOps *prometheus.CounterVec
	// ActivityEvents counts tracked events by kind and outcome.
	ActivityEvents *prometheus.CounterVec
	// HTTPRequests counts API requests by method, route and status code.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes API latency by method and route.
	HTTPDuration *prometheus.HistogramVec
}

// New creates a registry with the carhub collectors plus the Go runtime and
// process collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "catalog", Name: "resolutions_total",
			Help: "Catalog reads by operation, result status and data source.",
		}, []string{"op", "status", "source"}),
		RemoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "remote", Name: "request_duration_seconds",
			Help: "Remote store call latency.", Buckets: DefaultBuckets,
		}, []string{"op"}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "remote", Name: "breaker_state",
			Help: "Remote circuit breaker state (0 closed, 1 open, 2 half-open).",
		}),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "garage", Name: "operations_total",
			Help: "Favorites and compare store operations.",
		}, []string{"store", "action", "outcome"}),
		ActivityEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "activity", Name: "events_total",
			Help: "Activity events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "API requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "API request latency.", Buckets: DefaultBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Resolutions, r.RemoteLatency, r.BreakerState, r.StoreOps,
		r.ActivityEvents, r.HTTPRequests, r.HTTPDuration,
	)
	return r
}

// Resolution records one catalog read.
func (r *Registry) Resolution(op, status, source string) {
	if r == nil {
		return
	}
	r.Resolutions.WithLabelValues(op, status, source).Inc()
}

// RemoteSince observes the latency of a remote call started at t.
func (r *Registry) RemoteSince(op string, t time.Time) {
	if r == nil {
		return
	}
	r.RemoteLatency.WithLabelValues(op).Observe(time.Since(t).Seconds())
}

// SetBreakerState records the breaker state as its numeric value.
func (r *Registry) SetBreakerState(state int) {
	if r == nil {
		return
	}
	r.BreakerState.Set(float64(state))
}

// StoreOp records a garage store operation.
func (r *Registry) StoreOp(store, action, outcome string) {
	if r == nil {
		return
	}
	r.StoreOps.WithLabelValues(store, action, outcome).Inc()
}

// Activity records an activity event outcome.
func (r *Registry) Activity(kind, outcome string) {
	if r == nil {
		return
	}
	r.ActivityEvents.WithLabelValues(kind, outcome).Inc()
}

// Request records one served HTTP request.
func (r *Registry) Request(method, route string, code int, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Gatherer exposes the underlying registry, e.g. for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler returns an http.Handler that serves the metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
