// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. .env file: copied into the process environment when present
//  2. Defaults: built-in values for every setting
//  3. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  4. Environment Variables: override any mapped setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Nearby    NearbyConfig    `koanf:"nearby"`
	Session   SessionConfig   `koanf:"session"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`       // 0 = use NumCPU
	SeedDefaults bool   `koanf:"seed_defaults"` // insert the default restaurants into an empty database
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds picker engine settings
type RecommendConfig struct {
	// DefaultK is the number of picks returned when a request does not ask
	// for a specific count.
	DefaultK int `koanf:"default_k"`

	// RecentVisitWindow excludes saved restaurants visited this recently.
	RecentVisitWindow time.Duration `koanf:"recent_visit_window"`

	// CuisineFatigueWindow penalizes cuisines eaten this recently.
	CuisineFatigueWindow time.Duration `koanf:"cuisine_fatigue_window"`

	// MinWeight is the sampling weight floor.
	MinWeight float64 `koanf:"min_weight"`

	// Seed fixes the random source for reproducible picks. 0 seeds from
	// the clock.
	Seed int64 `koanf:"seed"`
}

// NearbyConfig holds nearby scan settings
type NearbyConfig struct {
	Enabled bool `koanf:"enabled"`

	// Provider selects the place searcher: overpass or index.
	Provider string `koanf:"provider"`

	OverpassURL    string        `koanf:"overpass_url"`
	UserAgent      string        `koanf:"user_agent"`
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// PlacesFile is the YAML place list used by the index provider.
	PlacesFile string `koanf:"places_file"`

	DefaultRadiusMiles float64       `koanf:"default_radius_miles"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	SweepInterval      time.Duration `koanf:"sweep_interval"`

	AuthorizationTimeout time.Duration `koanf:"authorization_timeout"`
	FixTimeout           time.Duration `koanf:"fix_timeout"`

	RateLimit float64 `koanf:"rate_limit"` // searches per second, 0 disables
	RateBurst int     `koanf:"rate_burst"`

	Breaker  BreakerConfig  `koanf:"breaker"`
	Location LocationConfig `koanf:"location"`
}

// BreakerConfig holds circuit breaker settings for the place searcher
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// LocationConfig describes the device location used when a request does
// not carry coordinates.
type LocationConfig struct {
	ServicesEnabled bool `koanf:"services_enabled"`

	// Authorization is the permission state: not_determined, restricted,
	// denied, when_in_use or always.
	Authorization string `koanf:"authorization"`

	// HomeEnabled reports whether Latitude and Longitude hold a position.
	HomeEnabled bool    `koanf:"home_enabled"`
	Latitude    float64 `koanf:"latitude"`
	Longitude   float64 `koanf:"longitude"`
}

// SessionConfig holds picker session store settings
type SessionConfig struct {
	// Store selects the backend: memory, badger or redis.
	Store string `koanf:"store"`

	// Path is the BadgerDB directory.
	Path string `koanf:"path"`

	// RedisURL is a redis:// or rediss:// URL.
	RedisURL string `koanf:"redis_url"`

	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds HTTP edge protection settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads .env (if present) and then loads the layered configuration.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
