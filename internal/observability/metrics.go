package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
)

const namespace = "score_predictor"

// Metrics holds the service collectors on a private registry so tests can
// create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	matchUpdates *prometheus.CounterVec
	rescored     prometheus.Counter
	publishes    *prometheus.CounterVec
	rescoreRuns  prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		matchUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_result_updates_total",
			Help:      "Accepted match result updates by resulting status.",
		}, []string{"status"}),
		rescored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_rescored_total",
			Help:      "Predictions whose score was recomputed.",
		}),
		publishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_publish_total",
			Help:      "Match update broadcasts by driver and outcome.",
		}, []string{"driver", "outcome"}),
		rescoreRuns: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tournament_rescore_duration_seconds",
			Help:      "Wall time of full tournament rescoring runs.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveMatchUpdate(status string, rescored int) {
	m.matchUpdates.WithLabelValues(status).Inc()
	if rescored > 0 {
		m.rescored.Add(float64(rescored))
	}
}

func (m *Metrics) ObserveRescore(predictions int, elapsed time.Duration) {
	if predictions > 0 {
		m.rescored.Add(float64(predictions))
	}
	m.rescoreRuns.Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePublish(driver string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.publishes.WithLabelValues(driver, outcome).Inc()
}

// RegisterCache exposes the read-through cache counters. Calling it twice for
// the same registry panics, like any duplicate registration.
func (m *Metrics) RegisterCache(store *cache.Store) {
	counter := func(name, help string, read func(cache.Stats) int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(store.Stats())) })
	}

	m.registry.MustRegister(
		counter("hits_total", "Cache lookups served from memory.", func(s cache.Stats) int64 { return s.Hits }),
		counter("misses_total", "Cache lookups that missed.", func(s cache.Stats) int64 { return s.Misses }),
		counter("loads_total", "Loader calls made on a miss.", func(s cache.Stats) int64 { return s.Loads }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries currently held.",
		}, func() float64 { return float64(store.Len()) }),
	)
}
