// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

// Package config loads and validates the service configuration.
//
// Sources, lowest to highest priority: built-in defaults, an optional YAML
// file (CONFIG_PATH, config.yaml, /etc/wheretoeat/config.yaml), then
// environment variables. A .env file in the working directory is read into
// the environment first.
//
// # Environment Variables
//
// Server: HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT, ENVIRONMENT
//
// Database: DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, SEED_DEFAULTS
//
// Logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// Picker: PICK_COUNT, RECENT_VISIT_WINDOW, CUISINE_FATIGUE_WINDOW,
// MIN_PICK_WEIGHT, PICK_SEED
//
// Nearby: NEARBY_ENABLED, NEARBY_PROVIDER (overpass|index), OVERPASS_URL,
// NEARBY_USER_AGENT, NEARBY_REQUEST_TIMEOUT, NEARBY_PLACES_FILE,
// NEARBY_RADIUS_MILES, NEARBY_CACHE_TTL, NEARBY_SWEEP_INTERVAL,
// LOCATION_AUTH_TIMEOUT, LOCATION_FIX_TIMEOUT, NEARBY_RATE_LIMIT,
// NEARBY_RATE_BURST, NEARBY_BREAKER_*, LOCATION_SERVICES_ENABLED,
// LOCATION_AUTHORIZATION, HOME_ENABLED, HOME_LATITUDE, HOME_LONGITUDE
//
// Sessions: SESSION_STORE (memory|badger|redis), SESSION_STORE_PATH,
// REDIS_URL, SESSION_TTL, SESSION_CLEANUP_INTERVAL
//
// Security: CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS,
// RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//
// # Example config.yaml
//
//	server:
//	  port: 8080
//	database:
//	  path: /data/wheretoeat.duckdb
//	nearby:
//	  provider: index
//	  places_file: /data/places.yaml
//	  location:
//	    home_enabled: true
//	    latitude: 37.7749
//	    longitude: -122.4194
//	session:
//	  store: badger
//	  path: /data/sessions
package config
