// Package metrics exposes registrar, cache and search activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"domainscout/internal/search"
)

const namespace = "domainscout"

// Metrics records observer callbacks into a private registry.
// It satisfies registrar.QueueObserver, registrar.CacheObserver and search.Observer.
type Metrics struct {
	registry *prometheus.Registry

	enqueued     *prometheus.CounterVec
	attempts     *prometheus.CounterVec
	retries      *prometheus.CounterVec
	waits        *prometheus.CounterVec
	completed    *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	candidates   *prometheus.CounterVec
	searches     *prometheus.CounterVec
	searchTime   prometheus.Histogram
}

// New builds the metric set and registers it on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry:     prometheus.NewRegistry(),
		enqueued:     counterVec("registrar", "enqueued_total", "Requests added to the registrar queue.", "endpoint", "priority"),
		attempts:     counterVec("registrar", "attempts_total", "Upstream HTTP calls made, retries included.", "endpoint"),
		retries:      counterVec("registrar", "retries_total", "Rate-limited calls scheduled for another attempt.", "endpoint"),
		waits:        counterVec("registrar", "rate_limit_waits_total", "Pauses taken because an endpoint had no budget left.", "endpoint"),
		completed:    counterVec("registrar", "requests_total", "Queued requests by terminal outcome.", "endpoint", "outcome"),
		cacheLookups: counterVec("cache", "lookups_total", "Cache-aside lookups by key class and result.", "class", "result"),
		candidates:   counterVec("search", "candidates_total", "Search candidates by final stage.", "stage"),
		searches:     counterVec("search", "runs_total", "Searches by outcome.", "outcome"),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registrar",
			Name:      "request_duration_seconds",
			Help:      "Time from enqueue to resolution.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"endpoint"}),
		searchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of completed searches.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
	m.registry.MustRegister(
		m.enqueued, m.attempts, m.retries, m.waits, m.completed, m.latency,
		m.cacheLookups, m.candidates, m.searches, m.searchTime,
	)
	return m
}

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

// Registry returns the registry holding every domainscout metric.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Watch registers a collector reading live queue, cache and rate-limit state from src on every scrape.
func (m *Metrics) Watch(src StatusSource) error {
	return m.registry.Register(&statusCollector{src: src})
}

// OnEnqueue implements registrar.QueueObserver.
func (m *Metrics) OnEnqueue(endpoint string, priority bool, _ int) {
	m.enqueued.WithLabelValues(endpoint, strconv.FormatBool(priority)).Inc()
}

// OnAttempt implements registrar.QueueObserver.
func (m *Metrics) OnAttempt(endpoint string, _ int) {
	m.attempts.WithLabelValues(endpoint).Inc()
}

// OnRetry implements registrar.QueueObserver.
func (m *Metrics) OnRetry(endpoint string, _ int, _ time.Duration) {
	m.retries.WithLabelValues(endpoint).Inc()
}

// OnRateLimitWait implements registrar.QueueObserver.
func (m *Metrics) OnRateLimitWait(endpoint string, _ time.Duration) {
	m.waits.WithLabelValues(endpoint).Inc()
}

// OnComplete implements registrar.QueueObserver.
func (m *Metrics) OnComplete(endpoint, outcome string, elapsed time.Duration) {
	m.completed.WithLabelValues(endpoint, outcome).Inc()
	m.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// OnCacheHit implements registrar.CacheObserver.
func (m *Metrics) OnCacheHit(class string) {
	m.cacheLookups.WithLabelValues(class, "hit").Inc()
}

// OnCacheMiss implements registrar.CacheObserver.
func (m *Metrics) OnCacheMiss(class string) {
	m.cacheLookups.WithLabelValues(class, "miss").Inc()
}

// OnSearchStart implements search.Observer.
func (m *Metrics) OnSearchStart(string, []string) {}

// OnCandidate implements search.Observer. Only final stages are counted.
func (m *Metrics) OnCandidate(event search.CandidateEvent) {
	if event.Stage == search.StageChecking {
		return
	}
	m.candidates.WithLabelValues(string(event.Stage)).Inc()
}

// OnSearchEnd implements search.Observer.
func (m *Metrics) OnSearchEnd(result search.SearchResult, err error) {
	if err != nil {
		m.searches.WithLabelValues("error").Inc()
		return
	}
	m.searches.WithLabelValues("ok").Inc()
	m.searchTime.Observe(float64(result.SearchTimeMs) / 1000)
}
