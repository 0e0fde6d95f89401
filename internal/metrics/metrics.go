// Package metrics exposes Prometheus counters for ingest runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inverse_cramer"

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SearchQueries       *prometheus.CounterVec
	PostsExtracted      prometheus.Counter
	SymbolsProcessed    *prometheus.CounterVec
	SeriesCacheLookups  *prometheus.CounterVec
	RunDuration         *prometheus.HistogramVec
	LastSuccessfulRunTS *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Timeline search queries issued, by outcome",
		}, []string{"outcome"}),
		PostsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "posts_extracted_total",
			Help:      "Recommendation posts kept after filtering",
		}),
		SymbolsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stocks",
			Name:      "symbols_processed_total",
			Help:      "Symbols joined and stored, by outcome",
		}, []string{"outcome"}),
		SeriesCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stocks",
			Name:      "series_cache_lookups_total",
			Help:      "Price series cache lookups, by result",
		}, []string{"result"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of ingest runs",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}, []string{"kind"}),
		LastSuccessfulRunTS: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix time of the last run that finished without errors",
		}, []string{"kind"}),
	}
}

func (m *Metrics) SearchQuery(outcome string) {
	if m == nil {
		return
	}
	m.SearchQueries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PostsKept(n int) {
	if m == nil {
		return
	}
	m.PostsExtracted.Add(float64(n))
}

func (m *Metrics) SymbolProcessed(outcome string) {
	if m == nil {
		return
	}
	m.SymbolsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SeriesCacheLookups.WithLabelValues(result).Inc()
}

// RunFinished records a run of kind that started at start.
func (m *Metrics) RunFinished(kind string, start time.Time, ok bool) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if ok {
		m.LastSuccessfulRunTS.WithLabelValues(kind).SetToCurrentTime()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
