// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/wheretoeat/internal/api"
	"github.com/tomtom215/wheretoeat/internal/cache"
	"github.com/tomtom215/wheretoeat/internal/config"
	"github.com/tomtom215/wheretoeat/internal/database"
	"github.com/tomtom215/wheretoeat/internal/logging"
	"github.com/tomtom215/wheretoeat/internal/metrics"
	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/picker"
	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/session"
	"github.com/tomtom215/wheretoeat/internal/supervisor"
	"github.com/tomtom215/wheretoeat/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const uptimeInterval = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("session_store", cfg.Session.Store).
		Bool("nearby_enabled", cfg.Nearby.Enabled).
		Msg("Starting WhereToEat")
	logging.Debug().
		Str("nearby_provider", cfg.Nearby.Provider).
		Dur("session_ttl", cfg.Session.TTL).
		Int("default_k", cfg.Recommend.DefaultK).
		Msg("Configuration loaded")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if cfg.Database.SeedDefaults {
		seeded, err := db.SeedRestaurants(context.Background(), time.Now())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed default restaurants")
		}
		if seeded > 0 {
			logging.Info().Int("count", seeded).Msg("Seeded default restaurants")
		}
	}

	sessions, err := session.NewStoreFactory(&cfg.Session)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close session store")
		}
	}()

	engine, err := recommend.NewEngine(&recommend.Config{
		RecentVisitWindow:    cfg.Recommend.RecentVisitWindow,
		CuisineFatigueWindow: cfg.Recommend.CuisineFatigueWindow,
		MinWeight:            cfg.Recommend.MinWeight,
		DefaultK:             cfg.Recommend.DefaultK,
	}, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid recommend configuration")
	}

	opts := picker.Options{
		SessionTTL: cfg.Session.TTL,
		Seed:       cfg.Recommend.Seed,
	}
	var scanner *nearby.Scanner
	if cfg.Nearby.Enabled {
		scanner, err = newScanner(&cfg.Nearby)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize nearby search")
		}
		locator, err := newLocator(&cfg.Nearby)
		if err != nil {
			logging.Fatal().Err(err).Msg("Invalid location configuration")
		}
		opts.Scanner = scanner
		opts.Locator = locator
	}

	pickerService := picker.NewService(db, sessions.Store(), engine, opts, logging.Logger())

	handler := api.NewHandler(pickerService, db, db)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMaintenanceService(services.NewSessionCleaner(sessions.Store(), cfg.Session.CleanupInterval))
	if scanner != nil {
		tree.AddMaintenanceService(services.NewScanCacheSweeper(scanner, cfg.Nearby.SweepInterval))
	}
	startTime := time.Now()
	tree.AddMaintenanceService(services.NewPeriodicService("uptime", uptimeInterval, func(context.Context) (int, error) {
		metrics.AppUptime.Set(time.Since(startTime).Seconds())
		return 0, nil
	}))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // best-effort report during shutdown
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("WhereToEat stopped")
}

// newScanner builds the place searcher chosen by nearby.provider, wraps it in
// the breaker and rate limiter, and puts the scan cache in front.
func newScanner(cfg *config.NearbyConfig) (*nearby.Scanner, error) {
	var searcher nearby.PlaceSearcher
	switch cfg.Provider {
	case "index":
		places, err := nearby.LoadPlacesFile(cfg.PlacesFile)
		if err != nil {
			return nil, err
		}
		searcher = nearby.NewIndexSearcher(places)
		logging.Info().Int("places", len(places)).Str("file", cfg.PlacesFile).Msg("Nearby place index loaded")
	case "overpass", "":
		searcher = nearby.NewOverpassSearcher(cfg.OverpassURL, cfg.UserAgent, cfg.RequestTimeout)
	default:
		return nil, fmt.Errorf("unknown nearby provider %q", cfg.Provider)
	}

	resilient := nearby.NewResilientSearcher(searcher, nearby.BreakerSettings{
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
	}, cfg.RateLimit, cfg.RateBurst, logging.WithComponent("nearby"))

	scanCache := cache.NewScanCache[recommend.Candidate](cfg.CacheTTL)
	return nearby.NewScanner(resilient, scanCache, cfg.DefaultRadiusMiles, logging.WithComponent("nearby")), nil
}

// newLocator describes the host as a device whose fix is the configured home
// coordinate.
func newLocator(cfg *config.NearbyConfig) (*nearby.Locator, error) {
	status, err := nearby.ParseAuthorizationStatus(cfg.Location.Authorization)
	if err != nil {
		return nil, err
	}
	source := &nearby.StaticSource{
		Enabled:      cfg.Location.ServicesEnabled,
		Status:       status,
		PromptResult: status,
	}
	if cfg.Location.HomeEnabled {
		home := nearby.Coordinate{Latitude: cfg.Location.Latitude, Longitude: cfg.Location.Longitude}
		source.Location = &home
	}
	return nearby.NewLocator(source, cfg.AuthorizationTimeout, cfg.FixTimeout, logging.WithComponent("location")), nil
}
