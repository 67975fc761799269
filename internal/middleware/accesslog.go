// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/wheretoeat/internal/logging"
)

// AccessLog logs one line per completed request at debug level, or at warn
// level for server errors. It must run after RequestID so the line carries
// the request id.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		event := logging.CtxDebug(r.Context())
		if wrapper.statusCode >= http.StatusInternalServerError {
			event = logging.CtxWarn(r.Context())
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}
