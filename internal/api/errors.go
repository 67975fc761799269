// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/wheretoeat/internal/database"
	"github.com/tomtom215/wheretoeat/internal/logging"
	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/picker"
	"github.com/tomtom215/wheretoeat/internal/session"
)

// errorMapping is the HTTP rendering of a known error.
type errorMapping struct {
	status  int
	code    string
	message string
}

// mapError classifies err. ok is false for errors with no specific mapping.
func mapError(err error) (m errorMapping, ok bool) {
	var le *nearby.LocationError
	switch {
	case errors.As(err, &le):
		return locationErrorMapping(le), true

	case errors.Is(err, session.ErrSessionNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeNotFound, "Pick session not found"}, true
	case errors.Is(err, session.ErrSessionExpired):
		return errorMapping{http.StatusGone, ErrCodeSessionExpired, "Pick session expired. Start a new pick."}, true
	case errors.Is(err, picker.ErrCandidateNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeNotFound, "Candidate is not part of this pick session"}, true
	case errors.Is(err, database.ErrRestaurantNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeNotFound, "Restaurant not found"}, true
	case errors.Is(err, database.ErrVisitNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeNotFound, "Visit not found"}, true
	case errors.Is(err, database.ErrInvalidRestaurant):
		return errorMapping{http.StatusBadRequest, ErrCodeValidationFailed, err.Error()}, true

	case errors.Is(err, picker.ErrNearbyDisabled):
		return errorMapping{http.StatusServiceUnavailable, ErrCodeNearbyDisabled, "Nearby search is turned off"}, true
	case errors.Is(err, nearby.ErrInvalidCoordinate):
		return errorMapping{http.StatusBadRequest, ErrCodeBadRequest, "Latitude or longitude is out of range"}, true
	case errors.Is(err, nearby.ErrSearchRejected):
		return errorMapping{http.StatusBadGateway, ErrCodeExternalServiceFail, "Nearby search is temporarily unavailable. Try again in a minute."}, true
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusGatewayTimeout, ErrCodeTimedOut, "The request timed out"}, true
	}
	return errorMapping{}, false
}

func locationErrorMapping(le *nearby.LocationError) errorMapping {
	switch le.Kind {
	case nearby.KindServicesDisabled, nearby.KindPermissionDenied:
		return errorMapping{http.StatusForbidden, ErrCodePermissionDenied, le.Message}
	case nearby.KindTimedOut:
		return errorMapping{http.StatusGatewayTimeout, ErrCodeTimedOut, le.Message}
	default:
		return errorMapping{http.StatusServiceUnavailable, ErrCodeLocationUnavailable, le.Message}
	}
}

// respondServiceError writes the envelope for an error returned by the picker
// or the nearby scanner. Unclassified errors become 500 INTERNAL_ERROR.
func respondServiceError(rw *ResponseWriter, err error) {
	if m, ok := mapError(err); ok {
		rw.Error(m.status, m.code, m.message)
		return
	}
	logging.CtxErr(rw.r.Context(), err).Msg("Request failed")
	rw.InternalError("An unexpected error occurred")
}

// respondStoreError writes the envelope for an error returned by the
// restaurant store. Unclassified errors become 500 DATABASE_ERROR.
func respondStoreError(rw *ResponseWriter, err error) {
	if m, ok := mapError(err); ok {
		rw.Error(m.status, m.code, m.message)
		return
	}
	rw.DatabaseError(err)
}
