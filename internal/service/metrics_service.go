package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "school_api"

// MetricsService owns the Prometheus registry and the collectors the API
// feeds. A nil receiver is safe; every observer is a no-op then.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpDuration *prometheus.HistogramVec
	httpTotal    *prometheus.CounterVec
	cacheReads   *prometheus.CounterVec
	cacheReadDur prometheus.Observer
	cacheWrite   prometheus.Observer
}

// NewMetricsService builds a registry with the API's collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served by route.",
	}, []string{"method", "path", "status"})

	cacheReads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "cache",
		Name:      "reads_total",
		Help:      "Cache reads partitioned by hit or miss.",
	}, []string{"result"})

	cacheReadDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "cache",
		Name:      "read_duration_seconds",
		Help:      "Cache read latency.",
		Buckets:   prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "cache",
		Name:      "write_duration_seconds",
		Help:      "Cache write latency.",
		Buckets:   prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Current number of goroutines.",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(httpDuration, httpTotal, cacheReads, cacheReadDur, cacheWrite, goroutines)

	return &MetricsService{
		registry:     registry,
		handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		httpDuration: httpDuration,
		httpTotal:    httpTotal,
		cacheReads:   cacheReads,
		cacheReadDur: cacheReadDur,
		cacheWrite:   cacheWrite,
	}
}

// Handler exposes the scrape endpoint for the registry.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records timing and count for one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.httpTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveCacheRead records one cache lookup and whether it hit.
func (m *MetricsService) ObserveCacheRead(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheReads.WithLabelValues(result).Inc()
	m.cacheReadDur.Observe(duration.Seconds())
}

// ObserveCacheWrite records the latency of one cache store.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}
