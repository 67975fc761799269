// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is complete and consistent
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateLogging,
		c.validateRecommend,
		c.validateNearby,
		c.validateSession,
		c.validateSecurity,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.DefaultK < 1 {
		return fmt.Errorf("PICK_COUNT must be at least 1, got %d", r.DefaultK)
	}
	if r.RecentVisitWindow < 0 || r.CuisineFatigueWindow < 0 {
		return fmt.Errorf("recommend windows must not be negative")
	}
	if r.MinWeight <= 0 {
		return fmt.Errorf("MIN_PICK_WEIGHT must be positive, got %v", r.MinWeight)
	}
	return nil
}

func (c *Config) validateNearby() error {
	n := &c.Nearby
	if !n.Enabled {
		return nil
	}

	switch n.Provider {
	case "overpass":
		if _, err := url.ParseRequestURI(n.OverpassURL); err != nil {
			return fmt.Errorf("OVERPASS_URL is invalid: %w", err)
		}
	case "index":
		if n.PlacesFile == "" {
			return fmt.Errorf("NEARBY_PLACES_FILE is required when NEARBY_PROVIDER=index")
		}
	default:
		return fmt.Errorf("NEARBY_PROVIDER must be overpass or index, got %q", n.Provider)
	}

	if n.DefaultRadiusMiles <= 0 {
		return fmt.Errorf("NEARBY_RADIUS_MILES must be positive, got %v", n.DefaultRadiusMiles)
	}
	if n.CacheTTL <= 0 || n.SweepInterval <= 0 {
		return fmt.Errorf("nearby cache TTL and sweep interval must be positive")
	}
	if n.AuthorizationTimeout <= 0 || n.FixTimeout <= 0 {
		return fmt.Errorf("location timeouts must be positive")
	}
	if n.RateLimit < 0 {
		return fmt.Errorf("NEARBY_RATE_LIMIT must not be negative")
	}
	if n.Breaker.FailureRatio <= 0 || n.Breaker.FailureRatio > 1 {
		return fmt.Errorf("nearby breaker failure ratio must be in (0, 1], got %v", n.Breaker.FailureRatio)
	}

	switch n.Location.Authorization {
	case "not_determined", "restricted", "denied", "when_in_use", "always":
	default:
		return fmt.Errorf("LOCATION_AUTHORIZATION is invalid: %q", n.Location.Authorization)
	}
	if n.Location.HomeEnabled {
		if n.Location.Latitude < -90 || n.Location.Latitude > 90 ||
			n.Location.Longitude < -180 || n.Location.Longitude > 180 {
			return fmt.Errorf("home coordinate out of range: %v, %v", n.Location.Latitude, n.Location.Longitude)
		}
	}
	return nil
}

func (c *Config) validateSession() error {
	s := &c.Session
	switch s.Store {
	case "memory":
	case "badger":
		if s.Path == "" {
			return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
		}
	case "redis":
		u, err := url.Parse(s.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return fmt.Errorf("REDIS_URL must be a redis:// or rediss:// URL when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be memory, badger or redis, got %q", s.Store)
	}
	if s.TTL <= 0 || s.CleanupInterval <= 0 {
		return fmt.Errorf("session TTL and cleanup interval must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}
