// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the engine's tunables.
type Config struct {
	// RecentVisitWindow excludes saved restaurants visited this recently.
	RecentVisitWindow time.Duration

	// CuisineFatigueWindow is how far back visits count toward the
	// recent-cuisine penalty.
	CuisineFatigueWindow time.Duration

	// MinWeight is the floor applied to scores before sampling.
	MinWeight float64

	// DefaultK is the number of picks when a request does not set one.
	DefaultK int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		RecentVisitWindow:    7 * 24 * time.Hour,
		CuisineFatigueWindow: 3 * 24 * time.Hour,
		MinWeight:            0.05,
		DefaultK:             3,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.RecentVisitWindow < 0 {
		errs = append(errs, fmt.Errorf("recent visit window must be >= 0, got %v", c.RecentVisitWindow))
	}
	if c.CuisineFatigueWindow < 0 {
		errs = append(errs, fmt.Errorf("cuisine fatigue window must be >= 0, got %v", c.CuisineFatigueWindow))
	}
	if c.MinWeight <= 0 {
		errs = append(errs, fmt.Errorf("min weight must be > 0, got %v", c.MinWeight))
	}
	if c.DefaultK < 1 {
		errs = append(errs, fmt.Errorf("default k must be >= 1, got %d", c.DefaultK))
	}

	return errors.Join(errs...)
}
