// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// seededRNG is a splitmix64 generator for reproducible sampling tests.
type seededRNG struct {
	state uint64
}

func newSeededRNG(seed uint64) *seededRNG {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &seededRNG{state: seed}
}

func (r *seededRNG) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (r *seededRNG) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// constRNG always returns the same value.
type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }

var testNow = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func makeRestaurant(name string, cuisines ...string) Restaurant {
	distance := 2.0
	return Restaurant{
		ID:            fmt.Sprintf("id-%s", name),
		Name:          name,
		Cuisines:      cuisines,
		PriceLevel:    2,
		DistanceMiles: &distance,
		CreatedAt:     testNow.Add(-90 * 24 * time.Hour),
	}
}

func daysAgo(days float64) *time.Time {
	t := testNow.Add(-time.Duration(days * float64(24*time.Hour)))
	return &t
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func candidateIDs(candidates []Candidate) []string {
	ids := make([]string, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
	}
	return ids
}
