// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/logging"
)

// Default maintenance intervals.
const (
	DefaultSweepInterval   = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Task is one run of a periodic job. It returns how many items it removed.
type Task func(ctx context.Context) (int, error)

// PeriodicService runs a task on a fixed interval until its context is
// canceled. A failing run is logged and retried on the next tick; it does
// not stop the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
	logger   zerolog.Logger
}

// NewPeriodicService creates a periodic service. interval must be positive.
func NewPeriodicService(name string, interval time.Duration, task Task) *PeriodicService {
	return &PeriodicService{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logging.WithComponent(name),
	}
}

// Sweeper drops expired entries from an in-memory cache.
type Sweeper interface {
	Sweep() int
}

// NewScanCacheSweeper periodically sweeps the nearby scan cache.
func NewScanCacheSweeper(sweeper Sweeper, interval time.Duration) *PeriodicService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return NewPeriodicService("scan-cache-sweeper", interval, func(context.Context) (int, error) {
		return sweeper.Sweep(), nil
	})
}

// ExpiringStore removes its expired entries on demand.
type ExpiringStore interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// NewSessionCleaner periodically removes expired picker sessions.
func NewSessionCleaner(store ExpiringStore, interval time.Duration) *PeriodicService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return NewPeriodicService("session-cleaner", interval, store.CleanupExpired)
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Debug().Dur("interval", p.interval).Msg("Periodic task started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *PeriodicService) runOnce(ctx context.Context) {
	removed, err := p.task(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn().Err(err).Msg("Periodic task failed")
		return
	}
	if removed > 0 {
		p.logger.Debug().Int("removed", removed).Msg("Expired entries removed")
	}
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}
