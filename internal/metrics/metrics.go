// Package metrics exposes Prometheus counters for the cache and provider paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is a
// valid no-op receiver so tests can skip registration.
type Metrics struct {
	cacheRequests    *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
}

// New registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movieflix_cache_requests_total",
			Help: "Cache lookups by operation and result.",
		}, []string{"op", "result"}),
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movieflix_upstream_requests_total",
			Help: "External provider calls by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
}

// CacheHit records a cache lookup answered from the store.
func (m *Metrics) CacheHit(op string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(op, "hit").Inc()
}

// CacheMiss records a cache lookup that fell through to the provider.
func (m *Metrics) CacheMiss(op string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(op, "miss").Inc()
}

// Upstream records the outcome of a provider call: ok, not_found, or error.
func (m *Metrics) Upstream(op, outcome string) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(op, outcome).Inc()
}
