// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wheretoeat/internal/metrics"
)

// BreakerSettings configures the circuit breaker around a searcher.
type BreakerSettings struct {
	MaxRequests  uint32        // probes allowed in half-open state
	Interval     time.Duration // count reset period in closed state
	Timeout      time.Duration // open duration before half-open
	MinRequests  uint32        // requests needed before tripping
	FailureRatio float64       // failure ratio that trips the breaker
}

// DefaultBreakerSettings returns the production breaker configuration:
// 3 half-open probes, 1 minute window, 2 minute open timeout, trips at 60%
// failures over at least 10 requests.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// ResilientSearcher wraps a PlaceSearcher with a circuit breaker and a
// request rate limit so a failing or slow provider is not hammered.
// Rejections surface as ErrSearchRejected and are never retried here.
type ResilientSearcher struct {
	next    PlaceSearcher
	cb      *gobreaker.CircuitBreaker[[]Place]
	limiter *rate.Limiter
	name    string
	logger  zerolog.Logger
}

// NewResilientSearcher wraps next. ratePerSecond <= 0 disables rate limiting.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewResilientSearcher(next PlaceSearcher, settings BreakerSettings, ratePerSecond float64, burst int, logger zerolog.Logger) *ResilientSearcher {
	name := next.Name() + "-search"
	log := logger.With().Str("component", "circuit_breaker").Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]Place](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				log.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("Opening circuit")
			}
			return shouldTrip
		},

		// Caller cancellation is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			log.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}

	return &ResilientSearcher{
		next:    next,
		cb:      cb,
		limiter: limiter,
		name:    name,
		logger:  log,
	}
}

// Name returns the wrapped provider's name.
func (s *ResilientSearcher) Name() string {
	return s.next.Name()
}

// State returns the breaker state as "closed", "half-open" or "open".
func (s *ResilientSearcher) State() string {
	return stateToString(s.cb.State())
}

// Search waits for a rate-limit token, then calls the wrapped searcher
// through the breaker.
func (s *ResilientSearcher) Search(ctx context.Context, center Coordinate, radiusMeters float64) ([]Place, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrSearchRejected, err)
		}
	}

	places, err := s.cb.Execute(func() ([]Place, error) {
		return s.next.Search(ctx, center, radiusMeters)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			s.logger.Warn().Err(err).Msg("Search rejected")
			return nil, fmt.Errorf("%w: %v", ErrSearchRejected, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(s.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
	return places, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
