// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import "errors"

// ErrorKind classifies location failures.
type ErrorKind string

const (
	KindServicesDisabled    ErrorKind = "location_services_disabled"
	KindPermissionDenied    ErrorKind = "permission_denied"
	KindLocationUnavailable ErrorKind = "location_unavailable"
	KindTimedOut            ErrorKind = "timed_out"
)

// LocationError is a typed failure from location resolution. Its message is
// safe to show to the user.
type LocationError struct {
	Kind    ErrorKind
	Message string
}

func (e *LocationError) Error() string {
	return e.Message
}

// Location errors. Callers match them with errors.Is; they are returned
// unwrapped by Locator and passed through unmodified by Scanner.
var (
	ErrLocationServicesDisabled = &LocationError{
		Kind:    KindServicesDisabled,
		Message: "Location Services are disabled. Enable them in Settings to scan nearby restaurants.",
	}
	ErrPermissionDenied = &LocationError{
		Kind:    KindPermissionDenied,
		Message: "Location permission is denied or restricted. Allow While Using App access to scan nearby restaurants.",
	}
	ErrLocationUnavailable = &LocationError{
		Kind:    KindLocationUnavailable,
		Message: "Current location is unavailable. Try again in a moment.",
	}
	ErrTimedOut = &LocationError{
		Kind:    KindTimedOut,
		Message: "Nearby scan timed out. Check location permission/simulator location and try again.",
	}
)

// ErrSearchRejected is returned when the place search circuit is open or the
// local request budget is exhausted.
var ErrSearchRejected = errors.New("nearby search temporarily unavailable")

// ErrInvalidCoordinate is returned for out-of-range coordinates.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// KindOf returns the kind of a location error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var le *LocationError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
