// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64 `json:"latitude" koanf:"latitude"`
	Longitude float64 `json:"longitude" koanf:"longitude"`
}

// Valid reports whether the coordinate is finite and in range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// AuthorizationStatus is the device's location permission state.
type AuthorizationStatus int

const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationRestricted
	AuthorizationDenied
	AuthorizationWhenInUse
	AuthorizationAlways
)

// Authorized reports whether location may be read.
func (s AuthorizationStatus) Authorized() bool {
	return s == AuthorizationWhenInUse || s == AuthorizationAlways
}

func (s AuthorizationStatus) String() string {
	switch s {
	case AuthorizationNotDetermined:
		return "not_determined"
	case AuthorizationRestricted:
		return "restricted"
	case AuthorizationDenied:
		return "denied"
	case AuthorizationWhenInUse:
		return "when_in_use"
	case AuthorizationAlways:
		return "always"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseAuthorizationStatus parses the names returned by String.
func ParseAuthorizationStatus(s string) (AuthorizationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "not_determined":
		return AuthorizationNotDetermined, nil
	case "restricted":
		return AuthorizationRestricted, nil
	case "denied":
		return AuthorizationDenied, nil
	case "when_in_use":
		return AuthorizationWhenInUse, nil
	case "always":
		return AuthorizationAlways, nil
	default:
		return AuthorizationNotDetermined, fmt.Errorf("unknown authorization status %q", s)
	}
}

// LocationSource is the device location provider the Locator drives.
type LocationSource interface {
	// ServicesEnabled reports whether location services are on at all.
	ServicesEnabled() bool

	// AuthorizationStatus returns the current permission state.
	AuthorizationStatus() AuthorizationStatus

	// RequestAuthorization prompts for permission and streams status changes
	// until ctx is done. The channel is closed when the source stops sending.
	RequestAuthorization(ctx context.Context) <-chan AuthorizationStatus

	// LastKnown returns a cached fix if one exists.
	LastKnown() (Coordinate, bool)

	// RequestFix obtains a fresh fix, honoring ctx cancellation.
	RequestFix(ctx context.Context) (Coordinate, error)
}

// errNoFix is returned by sources that cannot produce a fix.
var errNoFix = errors.New("no location fix available")

// StaticSource is a LocationSource with fixed, configured device state. It
// stands in for a device on a server that has no GPS: the home coordinate is
// the fix.
type StaticSource struct {
	Enabled bool
	Status  AuthorizationStatus

	// PromptResult is the status reported after RequestAuthorization.
	// AuthorizationNotDetermined means the prompt is never answered.
	PromptResult AuthorizationStatus

	// Location is the fix; nil means no fix can be obtained.
	Location *Coordinate
}

func (s *StaticSource) ServicesEnabled() bool { return s.Enabled }

func (s *StaticSource) AuthorizationStatus() AuthorizationStatus { return s.Status }

func (s *StaticSource) RequestAuthorization(ctx context.Context) <-chan AuthorizationStatus {
	ch := make(chan AuthorizationStatus, 1)
	if s.PromptResult != AuthorizationNotDetermined {
		ch <- s.PromptResult
		close(ch)
		return ch
	}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func (s *StaticSource) LastKnown() (Coordinate, bool) {
	if s.Location == nil {
		return Coordinate{}, false
	}
	return *s.Location, true
}

func (s *StaticSource) RequestFix(ctx context.Context) (Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return Coordinate{}, err
	}
	if s.Location == nil {
		return Coordinate{}, errNoFix
	}
	return *s.Location, nil
}

// FixedSource reports an authorized device at a caller-supplied coordinate,
// e.g. coordinates sent with an API request. It is also a Positioner that
// skips the authorization flow.
type FixedSource struct {
	At Coordinate
}

func (f FixedSource) ServicesEnabled() bool { return true }

func (f FixedSource) AuthorizationStatus() AuthorizationStatus { return AuthorizationWhenInUse }

func (f FixedSource) RequestAuthorization(context.Context) <-chan AuthorizationStatus {
	ch := make(chan AuthorizationStatus, 1)
	ch <- AuthorizationWhenInUse
	close(ch)
	return ch
}

func (f FixedSource) LastKnown() (Coordinate, bool) { return f.At, f.At.Valid() }

func (f FixedSource) RequestFix(context.Context) (Coordinate, error) {
	if !f.At.Valid() {
		return Coordinate{}, ErrInvalidCoordinate
	}
	return f.At, nil
}

// Locate returns At, or ErrInvalidCoordinate when it is out of range.
func (f FixedSource) Locate(ctx context.Context) (Coordinate, error) {
	return f.RequestFix(ctx)
}
