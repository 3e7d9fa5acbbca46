package prometheus

import (
	"time"

	"spot-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Domain operation metrics
	SpotOperationsCounter    prometheus.CounterVec
	BookingOperationsCounter prometheus.CounterVec
	ReviewOperationsCounter  prometheus.CounterVec

	// Booking conflict metrics
	BookingConflictsCounter prometheus.Counter

	// Rating cache metrics
	RatingCacheCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(appConfig *config.Config) {
	// Use metric prefix from configuration
	prefix := appConfig.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Spot metrics
	SpotOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_spot_operations_total",
			Help: "Total number of spot operations",
		},
		[]string{"operation"},
	)

	// Booking metrics
	BookingOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_booking_operations_total",
			Help: "Total number of booking operations",
		},
		[]string{"operation"},
	)

	// Review metrics
	ReviewOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_review_operations_total",
			Help: "Total number of review operations",
		},
		[]string{"operation"},
	)

	// Booking conflicts
	BookingConflictsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_booking_conflicts_total",
			Help: "Total number of rejected overlapping booking attempts",
		},
	)

	// Rating cache
	RatingCacheCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_rating_cache_total",
			Help: "Rating cache lookups by outcome",
		},
		[]string{"outcome"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for authentication errors
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordSpotOperation increments the counter for spot operations
func RecordSpotOperation(operation string) {
	SpotOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordBookingOperation increments the counter for booking operations
func RecordBookingOperation(operation string) {
	BookingOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordReviewOperation increments the counter for review operations
func RecordReviewOperation(operation string) {
	ReviewOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordRatingCache increments the rating cache counter with the given outcome
func RecordRatingCache(outcome string) {
	RatingCacheCounter.WithLabelValues(outcome).Inc()
}
