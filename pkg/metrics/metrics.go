package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the application's metric registry, exposed on /api/metrics.
// A dedicated registry keeps default global collectors out of the scrape.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Init registers runtime collectors and the service info gauge
func Init(serviceName string) {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ServiceInfo.WithLabelValues(serviceName).Set(1)
}

var (
	// ServiceInfo carries the service name as a label for dashboard joins
	ServiceInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "service_info",
			Help: "Static service metadata",
		},
		[]string{"service_name"},
	)

	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	// Note: Removed 60s bucket to avoid histogram_quantile interpolation issues with low sample counts
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method", "http_route"},
	)

	// Database Client Metrics (Postgres)
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Storage Client Metrics (S3)
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	SessionBookings = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aureeture_session_bookings_total",
			Help: "Total number of session booking attempts",
		},
		[]string{"status"},
	)

	PaymentVerifications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aureeture_payment_verifications_total",
			Help: "Total number of payment signature verifications",
		},
		[]string{"status"},
	)

	MentorshipUpserts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aureeture_mentorship_upserts_total",
			Help: "Total number of mentorship reconciliation upserts",
		},
		[]string{"outcome"},
	)

	MentorshipBackfills = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "aureeture_mentorship_backfills_total",
			Help: "Total number of mentorship backfill runs",
		},
	)

	JoinAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aureeture_session_join_attempts_total",
			Help: "Total number of session join attempts",
		},
		[]string{"outcome"},
	)

	EmailsSent = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aureeture_emails_sent_total",
			Help: "Total number of notification emails sent",
		},
		[]string{"kind", "status"},
	)

	RoleOnboardings = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aureeture_role_onboardings_total",
			Help: "Total number of role profile onboarding attempts",
		},
		[]string{"role", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
