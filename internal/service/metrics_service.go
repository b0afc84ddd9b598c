package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for transport, cache and ledgers.
// A nil *MetricsService is a valid no-op recorder.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	enrollments     prometheus.Counter
	paymentsOpened  *prometheus.CounterVec
	paymentsSettled *prometheus.CounterVec
	authzDenied     *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors on a private registry.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups partitioned by result",
	}, []string{"result"})

	enrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_submitted_total",
		Help: "Enrollment records appended to the ledger",
	})

	paymentsOpened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_initiated_total",
		Help: "Payments created in pending state",
	}, []string{"payment_type"})

	paymentsSettled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_settled_total",
		Help: "Payments moved to a terminal state",
	}, []string{"status"})

	authzDenied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authorization_denied_total",
		Help: "Calls rejected by the access policy",
	}, []string{"gate"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		enrollments, paymentsOpened, paymentsSettled, authzDenied, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		enrollments:     enrollments,
		paymentsOpened:  paymentsOpened,
		paymentsSettled: paymentsSettled,
		authzDenied:     authzDenied,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// EnrollmentSubmitted counts an appended enrollment.
func (m *MetricsService) EnrollmentSubmitted() {
	if m == nil {
		return
	}
	m.enrollments.Inc()
}

// PaymentInitiated counts a new pending payment.
func (m *MetricsService) PaymentInitiated(paymentType models.PaymentType) {
	if m == nil {
		return
	}
	m.paymentsOpened.WithLabelValues(string(paymentType)).Inc()
}

// PaymentSettled counts a terminal transition.
func (m *MetricsService) PaymentSettled(status models.PaymentStatus) {
	if m == nil {
		return
	}
	m.paymentsSettled.WithLabelValues(string(status)).Inc()
}

// AuthorizationDenied counts a rejected policy gate.
func (m *MetricsService) AuthorizationDenied(gate string) {
	if m == nil {
		return
	}
	m.authzDenied.WithLabelValues(gate).Inc()
}
