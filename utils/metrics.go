package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Habit Metrics
	HabitOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_operations_total",
			Help: "Total number of habit counter operations",
		},
		[]string{"operation"}, // increment_good, increment_bad, decrement_good, decrement_bad
	)

	RolloverSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rollover_sweeps_total",
			Help: "Total number of daily rollover sweep runs",
		},
		[]string{"result"}, // completed, failed
	)

	RolloverBucketsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rollover_buckets_created_total",
			Help: "Zeroed day buckets inserted by the rollover sweep",
		},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure/pending, login/refresh/2fa
	)

	TokenUsage = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_usage_total",
			Help: "Tokens generated and blacklisted by type",
		},
		[]string{"type", "action"},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of registered accounts",
		},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type", "reason"},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackHabitOperation increments the habit operation counter
func TrackHabitOperation(operation string) {
	HabitOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackError increments the error counter by type and reason
func TrackError(errorType, reason string) {
	ErrorsTotal.WithLabelValues(errorType, reason).Inc()
}

// TrackRegistration counts a successful account creation
func TrackRegistration() {
	UsersRegistered.Inc()
}
