// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	PicksServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picker_picks_served_total",
			Help: "Total number of candidates returned by the recommendation engine",
		},
		[]string{"mode"},
	)

	PickEligiblePool = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "picker_eligible_pool_size",
			Help:    "Number of candidates left after filtering, per pick",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50, 100, 250},
		},
	)

	PickerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picker_operations_total",
			Help: "Total number of picker session operations",
		},
		[]string{"operation", "result"}, // operation: pick, veto, spin, choose, save
	)

	// Nearby Scan Metrics
	NearbyScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nearby_scans_total",
			Help: "Total number of nearby scans by outcome",
		},
		[]string{"result"}, // "cache_hit", "searched", "error"
	)

	NearbySearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nearby_search_duration_seconds",
			Help:    "Duration of external place searches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	NearbyPlacesFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nearby_places_found",
			Help:    "Number of distinct places returned per nearby search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	LocationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_errors_total",
			Help: "Total number of location resolution failures",
		},
		[]string{"kind"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "nearby_scan"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Session Metrics
	SessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picker_sessions_created_total",
			Help: "Total number of picker sessions created",
		},
		[]string{"store"},
	)

	SessionsExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picker_sessions_expired_total",
			Help: "Total number of expired picker sessions removed by cleanup",
		},
		[]string{"store"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPick records one engine run: the eligible pool size and the number
// of picks returned.
func RecordPick(mode string, eligible, picked int) {
	PickEligiblePool.Observe(float64(eligible))
	PicksServed.WithLabelValues(mode).Add(float64(picked))
}

// RecordPickerOperation records the outcome of a picker session operation
func RecordPickerOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	PickerOperations.WithLabelValues(operation, result).Inc()
}

// RecordNearbyScan records a scan outcome: "cache_hit", "searched" or "error"
func RecordNearbyScan(result string) {
	NearbyScans.WithLabelValues(result).Inc()
}

// RecordNearbySearch records an external place search
func RecordNearbySearch(provider string, duration time.Duration, places int) {
	NearbySearchDuration.WithLabelValues(provider).Observe(duration.Seconds())
	NearbyPlacesFound.Observe(float64(places))
}

// RecordLocationError records a typed location failure by kind
func RecordLocationError(kind string) {
	LocationErrors.WithLabelValues(kind).Inc()
}

// RecordSessionCleanup records expired sessions removed from a store
func RecordSessionCleanup(store string, removed int) {
	if removed > 0 {
		SessionsExpired.WithLabelValues(store).Add(float64(removed))
	}
}

// RecordSessionCreated records a picker session stored in a backend
func RecordSessionCreated(store string) {
	SessionsCreated.WithLabelValues(store).Inc()
}
