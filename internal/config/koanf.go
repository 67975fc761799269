// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wheretoeat/config.yaml",
	"/etc/wheretoeat/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:         "/data/wheretoeat.duckdb",
			MaxMemory:    "512MB",
			Threads:      0,
			SeedDefaults: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			DefaultK:             3,
			RecentVisitWindow:    7 * 24 * time.Hour,
			CuisineFatigueWindow: 3 * 24 * time.Hour,
			MinWeight:            0.05,
			Seed:                 0,
		},
		Nearby: NearbyConfig{
			Enabled:              true,
			Provider:             "overpass",
			OverpassURL:          "https://overpass-api.de/api/interpreter",
			UserAgent:            "wheretoeat/1.0",
			RequestTimeout:       15 * time.Second,
			PlacesFile:           "",
			DefaultRadiusMiles:   2.0,
			CacheTTL:             600 * time.Second,
			SweepInterval:        time.Minute,
			AuthorizationTimeout: 12 * time.Second,
			FixTimeout:           12 * time.Second,
			RateLimit:            1.0, // Overpass asks for roughly one query per second
			RateBurst:            2,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
			Location: LocationConfig{
				ServicesEnabled: true,
				Authorization:   "when_in_use",
				HomeEnabled:     false,
			},
		},
		Session: SessionConfig{
			Store:           "memory",
			Path:            "/data/sessions",
			RedisURL:        "",
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, checking
// CONFIG_PATH before the default paths. Empty when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_defaults":     "database.seed_defaults",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommend
	"pick_count":             "recommend.default_k",
	"recent_visit_window":    "recommend.recent_visit_window",
	"cuisine_fatigue_window": "recommend.cuisine_fatigue_window",
	"min_pick_weight":        "recommend.min_weight",
	"pick_seed":              "recommend.seed",

	// Nearby
	"nearby_enabled":               "nearby.enabled",
	"nearby_provider":              "nearby.provider",
	"overpass_url":                 "nearby.overpass_url",
	"nearby_user_agent":            "nearby.user_agent",
	"nearby_request_timeout":       "nearby.request_timeout",
	"nearby_places_file":           "nearby.places_file",
	"nearby_radius_miles":          "nearby.default_radius_miles",
	"nearby_cache_ttl":             "nearby.cache_ttl",
	"nearby_sweep_interval":        "nearby.sweep_interval",
	"location_auth_timeout":        "nearby.authorization_timeout",
	"location_fix_timeout":         "nearby.fix_timeout",
	"nearby_rate_limit":            "nearby.rate_limit",
	"nearby_rate_burst":            "nearby.rate_burst",
	"nearby_breaker_max_requests":  "nearby.breaker.max_requests",
	"nearby_breaker_interval":      "nearby.breaker.interval",
	"nearby_breaker_timeout":       "nearby.breaker.timeout",
	"nearby_breaker_min_requests":  "nearby.breaker.min_requests",
	"nearby_breaker_failure_ratio": "nearby.breaker.failure_ratio",
	"location_services_enabled":    "nearby.location.services_enabled",
	"location_authorization":       "nearby.location.authorization",
	"home_enabled":                 "nearby.location.home_enabled",
	"home_latitude":                "nearby.location.latitude",
	"home_longitude":               "nearby.location.longitude",

	// Session
	"session_store":            "session.store",
	"session_store_path":       "session.path",
	"redis_url":                "session.redis_url",
	"session_ttl":              "session.ttl",
	"session_cleanup_interval": "session.cleanup_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into the config.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - SESSION_STORE -> session.store
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
