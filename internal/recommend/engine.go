// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/metrics"
)

// Request carries the caller's filters for one pick.
type Request struct {
	// Cuisines restricts picks to candidates tagged with one of these
	// (case-insensitive). Empty means any cuisine.
	Cuisines []string

	// MaxDistanceMiles excludes candidates known to be farther away.
	MaxDistanceMiles *float64

	Mode NoveltyMode

	// Vetoed holds saved restaurant IDs that must not be picked.
	Vetoed []string

	// K is the number of picks. Zero uses the configured default.
	K int
}

// Engine filters, scores and samples a candidate pool.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger
}

// NewEngine creates an engine. A nil config uses DefaultConfig.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// TopK returns up to K picks from pool in selection order.
//
// Saved candidates that are vetoed or were visited within the recent-visit
// window are excluded; nearby candidates without a saved record are exempt
// from both. The cuisine filter only applies to candidates that carry at
// least one cuisine tag. Candidates beyond the distance limit are excluded
// when their distance is known. Survivors are weighted by
// max(MinWeight, Score) and sampled without replacement.
//
//nolint:gocritic // hugeParam: request is read-only
func (e *Engine) TopK(req Request, history []Visit, pool []Candidate, now time.Time, rng RandSource) []Candidate {
	k := req.K
	if k <= 0 {
		k = e.cfg.DefaultK
	}

	selected := lowerSet(req.Cuisines)
	vetoed := lowerSet(req.Vetoed)
	recentlyVisited := e.recentlyVisited(history, now)
	recentCuisines := e.recentCuisines(history, pool, now)

	weighted := make([]Weighted[Candidate], 0, len(pool))
	for i := range pool {
		c := pool[i]

		if c.SavedRestaurantID != nil {
			savedID := strings.ToLower(*c.SavedRestaurantID)
			if _, ok := vetoed[savedID]; ok {
				continue
			}
			if _, ok := recentlyVisited[savedID]; ok {
				continue
			}
		}

		if len(selected) > 0 && len(c.Cuisines) > 0 && !intersects(c.Cuisines, selected) {
			continue
		}

		if req.MaxDistanceMiles != nil && c.DistanceMiles != nil && *c.DistanceMiles > *req.MaxDistanceMiles {
			continue
		}

		weight := Score(c, recentCuisines, req.Mode, now)
		if weight < e.cfg.MinWeight {
			weight = e.cfg.MinWeight
		}
		weighted = append(weighted, Weighted[Candidate]{Item: c, Weight: weight})
	}

	picks := WeightedSample(weighted, k, rng)

	metrics.RecordPick(req.Mode.String(), len(weighted), len(picks))
	e.logger.Debug().
		Int("pool", len(pool)).
		Int("eligible", len(weighted)).
		Int("picks", len(picks)).
		Str("mode", req.Mode.String()).
		Msg("Computed picks")

	return picks
}

// TopKRestaurants runs TopK over saved restaurants and returns the backing
// records of the picks.
//
//nolint:gocritic // hugeParam: request is read-only
func (e *Engine) TopKRestaurants(req Request, history []Visit, restaurants []Restaurant, now time.Time, rng RandSource) []Restaurant {
	byID := make(map[string]Restaurant, len(restaurants))
	for i := range restaurants {
		byID[strings.ToLower(restaurants[i].ID)] = restaurants[i]
	}

	picks := e.TopK(req, history, BuildPool(restaurants, nil, false, false), now, rng)

	out := make([]Restaurant, 0, len(picks))
	for i := range picks {
		if picks[i].SavedRestaurantID == nil {
			continue
		}
		if r, ok := byID[strings.ToLower(*picks[i].SavedRestaurantID)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// recentlyVisited returns the lowercased restaurant IDs visited within the
// recent-visit window.
func (e *Engine) recentlyVisited(history []Visit, now time.Time) map[string]struct{} {
	cutoff := now.Add(-e.cfg.RecentVisitWindow)
	ids := make(map[string]struct{})
	for i := range history {
		if !history[i].Date.Before(cutoff) {
			ids[strings.ToLower(history[i].RestaurantID)] = struct{}{}
		}
	}
	return ids
}

// recentCuisines returns the lowercased cuisines of pool candidates whose
// saved record was visited within the fatigue window.
func (e *Engine) recentCuisines(history []Visit, pool []Candidate, now time.Time) map[string]struct{} {
	cutoff := now.Add(-e.cfg.CuisineFatigueWindow)

	bySavedID := make(map[string]*Candidate, len(pool))
	for i := range pool {
		if pool[i].SavedRestaurantID != nil {
			bySavedID[strings.ToLower(*pool[i].SavedRestaurantID)] = &pool[i]
		}
	}

	cuisines := make(map[string]struct{})
	for i := range history {
		if history[i].Date.Before(cutoff) {
			continue
		}
		c, ok := bySavedID[strings.ToLower(history[i].RestaurantID)]
		if !ok {
			continue
		}
		for _, cuisine := range c.Cuisines {
			cuisines[strings.ToLower(cuisine)] = struct{}{}
		}
	}
	return cuisines
}

func intersects(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[strings.ToLower(v)]; ok {
			return true
		}
	}
	return false
}
