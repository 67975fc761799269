// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/metrics"
)

// Default timeouts for the two location windows.
const (
	DefaultAuthorizationTimeout = 12 * time.Second
	DefaultFixTimeout           = 12 * time.Second
)

// Locator resolves the current position from a LocationSource, producing
// either a coordinate or one of the typed location errors.
type Locator struct {
	source      LocationSource
	authTimeout time.Duration
	fixTimeout  time.Duration
	logger      zerolog.Logger
}

// NewLocator creates a locator. Non-positive timeouts use the defaults.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewLocator(source LocationSource, authTimeout, fixTimeout time.Duration, logger zerolog.Logger) *Locator {
	if authTimeout <= 0 {
		authTimeout = DefaultAuthorizationTimeout
	}
	if fixTimeout <= 0 {
		fixTimeout = DefaultFixTimeout
	}
	return &Locator{
		source:      source,
		authTimeout: authTimeout,
		fixTimeout:  fixTimeout,
		logger:      logger.With().Str("component", "locator").Logger(),
	}
}

// Locate returns the device position.
//
// Services disabled yields ErrLocationServicesDisabled. A denied or
// restricted permission yields ErrPermissionDenied. An undetermined
// permission is requested and awaited for the authorization timeout. Once
// authorized, the last known fix is used when present; otherwise a fresh fix
// is requested within the fix timeout. Either window expiring yields
// ErrTimedOut. Cancellation of ctx itself is returned as ctx.Err().
func (l *Locator) Locate(ctx context.Context) (Coordinate, error) {
	coord, err := l.locate(ctx)
	if kind := KindOf(err); kind != "" {
		metrics.RecordLocationError(string(kind))
		l.logger.Debug().Str("kind", string(kind)).Msg("Location unavailable")
	}
	return coord, err
}

func (l *Locator) locate(ctx context.Context) (Coordinate, error) {
	if !l.source.ServicesEnabled() {
		return Coordinate{}, ErrLocationServicesDisabled
	}

	if err := l.ensureAuthorized(ctx); err != nil {
		return Coordinate{}, err
	}

	if coord, ok := l.source.LastKnown(); ok && coord.Valid() {
		return coord, nil
	}

	return l.requestFix(ctx)
}

func (l *Locator) ensureAuthorized(ctx context.Context) error {
	switch status := l.source.AuthorizationStatus(); {
	case status.Authorized():
		return nil
	case status == AuthorizationNotDetermined:
		return l.awaitAuthorization(ctx)
	default:
		return ErrPermissionDenied
	}
}

// awaitAuthorization requests permission and waits for a terminal status.
func (l *Locator) awaitAuthorization(ctx context.Context) error {
	authCtx, cancel := context.WithTimeout(ctx, l.authTimeout)
	defer cancel()

	updates := l.source.RequestAuthorization(authCtx)
	for {
		select {
		case <-authCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrTimedOut
		case status, ok := <-updates:
			if !ok {
				// The source gave up without an answer; wait out the window
				// unless it already ended.
				updates = nil
				continue
			}
			switch {
			case status.Authorized():
				return nil
			case status == AuthorizationNotDetermined:
				continue
			default:
				return ErrPermissionDenied
			}
		}
	}
}

func (l *Locator) requestFix(ctx context.Context) (Coordinate, error) {
	fixCtx, cancel := context.WithTimeout(ctx, l.fixTimeout)
	defer cancel()

	type result struct {
		coord Coordinate
		err   error
	}
	done := make(chan result, 1)
	go func() {
		coord, err := l.source.RequestFix(fixCtx)
		done <- result{coord: coord, err: err}
	}()

	select {
	case <-fixCtx.Done():
		if ctx.Err() != nil {
			return Coordinate{}, ctx.Err()
		}
		return Coordinate{}, ErrTimedOut
	case res := <-done:
		if res.err == nil && res.coord.Valid() {
			return res.coord, nil
		}
		if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return Coordinate{}, ErrTimedOut
		}
		if errors.Is(res.err, ErrPermissionDenied) {
			return Coordinate{}, ErrPermissionDenied
		}
		switch l.source.AuthorizationStatus() {
		case AuthorizationDenied, AuthorizationRestricted:
			return Coordinate{}, ErrPermissionDenied
		}
		l.logger.Debug().Err(res.err).Msg("Location fix failed")
		return Coordinate{}, ErrLocationUnavailable
	}
}
