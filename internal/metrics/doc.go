// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rejected by the per-IP limiter (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)

Recommendation Metrics:
  - picker_picks_served_total: Candidates returned, by novelty mode (counter)
  - picker_eligible_pool_size: Candidates surviving the filters (histogram)
  - picker_operations_total: Session operations by outcome (counter)
  - picker_sessions_created_total / picker_sessions_expired_total

Nearby Metrics:
  - nearby_scans_total: Scans by outcome (cache_hit, searched, error)
  - nearby_search_duration_seconds: External search latency by provider
  - nearby_places_found: Places per search (histogram)
  - location_errors_total: Typed location failures by kind
  - cache_hits_total / cache_misses_total / cache_entries / cache_evictions_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "restaurants", time.Since(start), err)

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
