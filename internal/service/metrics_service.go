package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// generation engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationDuration prometheus.Histogram
	generationTotal    *prometheus.CounterVec
	sessionsScheduled  prometheus.Gauge
	sessionsSkipped    prometheus.Gauge
	successRate        prometheus.Gauge

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of timetable generation passes",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_total",
		Help: "Total generation passes by outcome",
	}, []string{"outcome"})

	sessionsScheduled := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_sessions_scheduled",
		Help: "Sessions scheduled by the most recent generation pass",
	})

	sessionsSkipped := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_sessions_skipped",
		Help: "Demands skipped by the most recent generation pass",
	})

	successRate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_generation_success_rate",
		Help: "Success rate percentage of the most recent generation pass",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		generationDuration, generationTotal,
		sessionsScheduled, sessionsSkipped, successRate,
		cacheHits, cacheMisses,
	)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationDuration: generationDuration,
		generationTotal:    generationTotal,
		sessionsScheduled:  sessionsScheduled,
		sessionsSkipped:    sessionsSkipped,
		successRate:        successRate,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveGeneration records the outcome of one generation pass.
func (m *MetricsService) ObserveGeneration(duration time.Duration, scheduled, skipped int, successRate float64, err error) {
	m.generationDuration.Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.generationTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		m.sessionsScheduled.Set(float64(scheduled))
		m.sessionsSkipped.Set(float64(skipped))
		m.successRate.Set(successRate)
	}
}

// RecordCacheLookup counts a cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}
