// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

import (
	"fmt"
	"strings"
	"time"
)

// User rating values.
const (
	RatingDislike = -1
	RatingNeutral = 0
	RatingLike    = 1
)

// Price level bounds for saved restaurants.
const (
	MinPriceLevel = 1
	MaxPriceLevel = 4
)

// Restaurant is a persisted restaurant record owned by the database layer.
type Restaurant struct {
	// ID is the durable identifier (UUID string).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Cuisines are free-form cuisine tags, e.g. "Thai", "Street Food".
	Cuisines []string `json:"cuisines"`

	// PriceLevel is the price tier, 1 (cheap) to 4 (expensive).
	PriceLevel int `json:"price_level"`

	// DistanceMiles is the distance from home, if known.
	DistanceMiles *float64 `json:"distance_miles,omitempty"`

	// Latitude and Longitude are set for restaurants saved from a nearby scan.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	IsFavorite bool `json:"is_favorite"`
	IsNew      bool `json:"is_new"`

	// LastVisited is the time of the most recent visit, nil if never visited.
	LastVisited *time.Time `json:"last_visited,omitempty"`

	// VisitCount is the number of recorded visits.
	VisitCount int `json:"visit_count"`

	// UserRating is -1, 0 or 1, nil when unrated.
	UserRating *int `json:"user_rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Normalize clamps the record's fields into their valid ranges.
func (r *Restaurant) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.PriceLevel = ClampPriceLevel(r.PriceLevel)
	if r.VisitCount < 0 {
		r.VisitCount = 0
	}
	r.UserRating = NormalizeRating(r.UserRating)
	if r.Cuisines == nil {
		r.Cuisines = []string{}
	}
}

// Visit is a single recorded meal at a saved restaurant.
type Visit struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Date         time.Time `json:"date"`
	Rating       *int      `json:"rating,omitempty"`
}

// ClampPriceLevel forces a price level into [MinPriceLevel, MaxPriceLevel].
func ClampPriceLevel(level int) int {
	if level < MinPriceLevel {
		return MinPriceLevel
	}
	if level > MaxPriceLevel {
		return MaxPriceLevel
	}
	return level
}

// NormalizeRating returns nil for ratings outside {-1, 0, 1}.
func NormalizeRating(rating *int) *int {
	if rating == nil {
		return nil
	}
	switch *rating {
	case RatingDislike, RatingNeutral, RatingLike:
		v := *rating
		return &v
	default:
		return nil
	}
}

// NoveltyMode biases picks toward new and rarely visited places or toward
// familiar ones.
type NoveltyMode string

const (
	// ModeSafe favors familiar restaurants.
	ModeSafe NoveltyMode = "safe"

	// ModeBalanced is the neutral default.
	ModeBalanced NoveltyMode = "balanced"

	// ModeAdventure favors new and long-unvisited restaurants.
	ModeAdventure NoveltyMode = "adventure"
)

// Multiplier returns the factor applied to the novelty term of the score.
// Unknown modes behave like ModeBalanced.
func (m NoveltyMode) Multiplier() float64 {
	switch m {
	case ModeSafe:
		return 0.5
	case ModeAdventure:
		return 1.9
	default:
		return 1.0
	}
}

// String implements fmt.Stringer.
func (m NoveltyMode) String() string {
	if m == "" {
		return string(ModeBalanced)
	}
	return string(m)
}

// ParseNoveltyMode parses a mode name; the empty string maps to ModeBalanced.
func ParseNoveltyMode(s string) (NoveltyMode, error) {
	switch NoveltyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBalanced:
		return ModeBalanced, nil
	case ModeSafe:
		return ModeSafe, nil
	case ModeAdventure:
		return ModeAdventure, nil
	default:
		return "", fmt.Errorf("unknown novelty mode %q", s)
	}
}
