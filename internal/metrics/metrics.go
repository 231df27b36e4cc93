// Package metrics exposes Prometheus instrumentation for page fetches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pagedview"

// Fetch outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeNetwork   = "network_error"
	OutcomeResponse  = "response_error"
	OutcomeMalformed = "malformed"
	OutcomeCanceled  = "canceled"
)

// Cache lookup label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Recorder owns a private registry so tests and embedded uses never collide
// with the global default registry. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	staleDiscards prometheus.Counter
	fetchDuration prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
}

// NewRecorder creates a Recorder with Go runtime collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Page fetches applied to the controller, by outcome.",
		}, []string{"outcome"}),
		staleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_discarded_total",
			Help:      "Completed fetches dropped because a newer request superseded them.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Wall time of remote page fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Page cache lookups, by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		r.fetches,
		r.staleDiscards,
		r.fetchDuration,
		r.cacheLookups,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveFetch records an applied fetch and its duration.
func (r *Recorder) ObserveFetch(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(d.Seconds())
}

// IncStaleDiscard records a completion dropped as stale.
func (r *Recorder) IncStaleDiscard() {
	if r == nil {
		return
	}
	r.staleDiscards.Inc()
}

// ObserveCacheLookup records a cache hit or miss.
func (r *Recorder) ObserveCacheLookup(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheLookups.WithLabelValues(CacheHit).Inc()
		return
	}
	r.cacheLookups.WithLabelValues(CacheMiss).Inc()
}

// Handler returns the /metrics HTTP handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
