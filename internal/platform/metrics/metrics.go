// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Summarization outcomes used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	GenerationsTotal      *prometheus.CounterVec
	GeneratedPairs        prometheus.Histogram
	SummarizationDuration *prometheus.HistogramVec
	SummaryCacheLookups   *prometheus.CounterVec
	CardsSaved            prometheus.Counter
	PairsDropped          prometheus.Counter
	EndpointLatency       *prometheus.HistogramVec
}

// New creates a fresh registry and registers all metrics on it, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GenerationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flashnotes_generations_total",
			Help: "Total number of generation requests, labeled by the source of the pairs",
		}, []string{"source"}),
		GeneratedPairs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "flashnotes_generated_pairs",
			Help:    "Number of pairs returned per generation",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		}),
		SummarizationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flashnotes_summarization_duration_seconds",
			Help:    "Duration of remote summarization calls in seconds, labeled by outcome",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"outcome"}),
		SummaryCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flashnotes_summary_cache_lookups_total",
			Help: "Total number of summary cache lookups, labeled by result",
		}, []string{"result"}),
		CardsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "flashnotes_cards_saved_total",
			Help: "Total number of flashcards persisted",
		}),
		PairsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "flashnotes_pairs_dropped_total",
			Help: "Total number of submitted pairs dropped for an empty question or answer",
		}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flashnotes_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration implements generation.Observer.
func (m *Metrics) ObserveGeneration(source string, pairs int) {
	m.GenerationsTotal.WithLabelValues(source).Inc()
	m.GeneratedPairs.Observe(float64(pairs))
}

// ObserveSummarization implements generation.Observer.
func (m *Metrics) ObserveSummarization(err error, duration time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.SummarizationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveCache implements redis.CacheObserver.
func (m *Metrics) ObserveCache(result string) {
	m.SummaryCacheLookups.WithLabelValues(result).Inc()
}

// ObserveSave records the result of one save request.
func (m *Metrics) ObserveSave(saved, dropped int) {
	m.CardsSaved.Add(float64(saved))
	m.PairsDropped.Add(float64(dropped))
}

// ObserveEndpointLatency records the latency for a given route.
func (m *Metrics) ObserveEndpointLatency(method, route, status string, duration time.Duration) {
	m.EndpointLatency.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
