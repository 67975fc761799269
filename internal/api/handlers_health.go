// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/wheretoeat/internal/logging"
)

// readinessTimeout bounds the database ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the database answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if h.db == nil {
		rw.ServiceUnavailable("Database not configured")
		return
	}
	if err := h.db.Ping(ctx); err != nil {
		logging.CtxWarn(r.Context()).Err(err).Msg("Readiness check failed")
		rw.ServiceUnavailable("Database not reachable")
		return
	}

	rw.Success(map[string]interface{}{
		"ready":          true,
		"database":       "ok",
		"nearby_enabled": h.picker != nil && h.picker.NearbyEnabled(),
	})
}
