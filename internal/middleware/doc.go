// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern
  - AccessLog: one structured log line per request

All middleware has the standard func(http.Handler) http.Handler shape so it
plugs directly into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Ordering matters: RequestID must run first so that later middleware and the
handlers see the id through logging.Ctx.

See Also:

  - internal/api: router and handlers
  - internal/metrics: Prometheus metrics definitions
  - internal/logging: request-scoped loggers
*/
package middleware
