// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package main is the entry point for the WhereToEat server.

WhereToEat answers "where should we eat?" with weighted random picks from
saved restaurants and, optionally, places found near the current location.

# Startup

 1. Configuration: Koanf v2 (defaults, config.yaml, environment, .env)
 2. Logging: zerolog, level and format from configuration
 3. Database: DuckDB, optionally seeded with default restaurants
 4. Session store: memory, BadgerDB or Redis
 5. Nearby search (if NEARBY_ENABLED): Overpass or a local place index,
    behind a circuit breaker, rate limiter and scan cache
 6. Picker service and the Chi HTTP router
 7. Suture supervisor tree running the HTTP server and maintenance tasks

The supervisor tree:

	RootSupervisor ("wheretoeat")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── session-cleaner
	│   ├── scan-cache-sweeper (nearby enabled only)
	│   └── uptime
	└── APISupervisor ("api-layer")
	    └── http-server

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
requests for up to server.shutdown_timeout; the session store and database
are closed last.

# Example

	export DUCKDB_PATH=./data/wheretoeat.duckdb
	export SESSION_STORE=badger
	export NEARBY_ENABLED=true
	export LOCATION_SERVICES_ENABLED=true
	export LOCATION_AUTHORIZATION=when_in_use
	export HOME_ENABLED=true
	export HOME_LATITUDE=40.7128
	export HOME_LONGITUDE=-74.0060
	./wheretoeat
*/
package main
