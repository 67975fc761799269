// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/cache"
	"github.com/tomtom215/wheretoeat/internal/metrics"
	"github.com/tomtom215/wheretoeat/internal/recommend"
)

const (
	// MetersPerMile converts statute miles to meters.
	MetersPerMile = 1609.344

	// MinRadiusMiles is the smallest radius a scan searches.
	MinRadiusMiles = 0.25

	// DefaultRadiusMiles is used when a scan does not name a radius.
	DefaultRadiusMiles = 2.0
)

const scanCacheType = "nearby_scan"

// ScanCache is the cache type the Scanner reads through.
type ScanCache = cache.ScanCache[recommend.Candidate]

// Scanner turns place searches into nearby candidates, reading through a
// bucketed TTL cache.
type Scanner struct {
	searcher      PlaceSearcher
	cache         *ScanCache
	defaultRadius float64
	now           func() time.Time
	logger        zerolog.Logger
}

// NewScanner creates a scanner. A nil scanCache gets a fresh cache with the
// default TTL; radiusMiles <= 0 uses DefaultRadiusMiles.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewScanner(searcher PlaceSearcher, scanCache *ScanCache, radiusMiles float64, logger zerolog.Logger) *Scanner {
	if scanCache == nil {
		scanCache = cache.NewScanCache[recommend.Candidate](cache.DefaultScanTTL)
	}
	if radiusMiles <= 0 {
		radiusMiles = DefaultRadiusMiles
	}
	return &Scanner{
		searcher:      searcher,
		cache:         scanCache,
		defaultRadius: radiusMiles,
		now:           time.Now,
		logger:        logger.With().Str("component", "nearby").Str("provider", searcher.Name()).Logger(),
	}
}

// Cache returns the scan cache.
func (s *Scanner) Cache() *ScanCache {
	return s.cache
}

// DefaultRadius returns the radius used when a scan passes 0.
func (s *Scanner) DefaultRadius() float64 {
	return s.defaultRadius
}

// Scan returns nearby candidates around center. radiusMiles <= 0 uses the
// default radius; the searched radius is never below MinRadiusMiles.
//
// Cached results for the same bucket are returned without searching.
// Successful searches, including empty ones, are cached.
func (s *Scanner) Scan(ctx context.Context, center Coordinate, radiusMiles float64) ([]recommend.Candidate, error) {
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}
	if radiusMiles <= 0 {
		radiusMiles = s.defaultRadius
	}

	now := s.now()
	if cached, ok := s.cache.Lookup(center.Latitude, center.Longitude, radiusMiles, now); ok {
		metrics.CacheHits.WithLabelValues(scanCacheType).Inc()
		metrics.RecordNearbyScan("cache_hit")
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(scanCacheType).Inc()

	meters := math.Max(radiusMiles, MinRadiusMiles) * MetersPerMile

	start := time.Now()
	places, err := s.searcher.Search(ctx, center, meters)
	if err != nil {
		metrics.RecordNearbyScan("error")
		s.logger.Warn().Err(err).Float64("radius_miles", radiusMiles).Msg("Nearby search failed")
		return nil, fmt.Errorf("nearby search: %w", err)
	}

	candidates := toCandidates(center, places)
	metrics.RecordNearbySearch(s.searcher.Name(), time.Since(start), len(candidates))
	metrics.RecordNearbyScan("searched")

	s.cache.Store(center.Latitude, center.Longitude, radiusMiles, candidates, now)
	metrics.CacheSize.WithLabelValues(scanCacheType).Set(float64(s.cache.Len()))

	s.logger.Debug().
		Int("places", len(places)).
		Int("candidates", len(candidates)).
		Float64("radius_miles", radiusMiles).
		Msg("Nearby search complete")

	return candidates, nil
}

// Positioner resolves a position. *Locator and FixedSource implement it.
type Positioner interface {
	Locate(ctx context.Context) (Coordinate, error)
}

// ScanAround resolves the position with at and scans there. Location errors
// are returned unmodified.
func (s *Scanner) ScanAround(ctx context.Context, at Positioner, radiusMiles float64) ([]recommend.Candidate, Coordinate, error) {
	center, err := at.Locate(ctx)
	if err != nil {
		return nil, Coordinate{}, err
	}
	candidates, err := s.Scan(ctx, center, radiusMiles)
	if err != nil {
		return nil, center, err
	}
	return candidates, center, nil
}

// Sweep drops expired cache entries and returns how many were removed.
func (s *Scanner) Sweep() int {
	removed := s.cache.Sweep(s.now())
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(scanCacheType).Add(float64(removed))
	}
	metrics.CacheSize.WithLabelValues(scanCacheType).Set(float64(s.cache.Len()))
	return removed
}

// toCandidates converts valid, named places to candidates with their
// distance from center, dropping duplicate identities.
func toCandidates(center Coordinate, places []Place) []recommend.Candidate {
	candidates := make([]recommend.Candidate, 0, len(places))
	for _, p := range places {
		if p.Name == "" || !p.Coordinate().Valid() {
			continue
		}
		distance := DistanceMiles(center, p.Coordinate())
		c := recommend.FromNearby(p.Name, p.Latitude, p.Longitude, &distance)
		if c.Name == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return recommend.DedupeByID(candidates)
}

// DistanceMiles returns the great-circle distance between a and b in miles.
func DistanceMiles(a, b Coordinate) float64 {
	return cache.DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude) * 1000 / MetersPerMile
}
