// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

import (
	"strconv"
	"strings"
	"time"
)

// Source tells where a candidate came from.
type Source string

const (
	SourceSaved  Source = "saved"
	SourceNearby Source = "nearby"
)

// savedIDPrefix prefixes the identity of candidates built from saved records.
const savedIDPrefix = "saved|"

// Candidate is the unit the engine reasons about: a saved restaurant or a
// place discovered by a nearby scan.
type Candidate struct {
	// ID is the identity key, stable across re-derivation from the same source.
	ID string `json:"id"`

	Name     string   `json:"name"`
	Cuisines []string `json:"cuisines"`

	PriceLevel    *int     `json:"price_level,omitempty"`
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`

	Source Source `json:"source"`

	// SavedRestaurantID references the persisted record backing this candidate.
	// Nil for nearby places that were never saved.
	SavedRestaurantID *string `json:"saved_restaurant_id,omitempty"`

	LastVisited *time.Time `json:"last_visited,omitempty"`
	VisitCount  int        `json:"visit_count"`
	IsFavorite  bool       `json:"is_favorite"`
	IsNew       bool       `json:"is_new"`
	UserRating  *int       `json:"user_rating,omitempty"`
}

// IsSaved reports whether the candidate is backed by a persisted record.
func (c *Candidate) IsSaved() bool {
	return c.SavedRestaurantID != nil
}

// FromSaved adapts a persisted restaurant into a Candidate.
//
//nolint:gocritic // hugeParam: records are passed by value to keep the adapter pure
func FromSaved(r Restaurant) Candidate {
	id := r.ID
	price := r.PriceLevel

	c := Candidate{
		ID:                SavedCandidateID(r.ID),
		Name:              r.Name,
		Cuisines:          append([]string(nil), r.Cuisines...),
		PriceLevel:        &price,
		DistanceMiles:     copyFloat(r.DistanceMiles),
		Source:            SourceSaved,
		SavedRestaurantID: &id,
		VisitCount:        r.VisitCount,
		IsFavorite:        r.IsFavorite,
		IsNew:             r.IsNew,
		UserRating:        NormalizeRating(r.UserRating),
	}
	if r.LastVisited != nil {
		t := *r.LastVisited
		c.LastVisited = &t
	}
	if c.VisitCount < 0 {
		c.VisitCount = 0
	}
	return c
}

// FromNearby builds a Candidate for a place found by a nearby scan.
// Nearby places start out new, unvisited and without cuisine tags.
func FromNearby(name string, lat, lon float64, distanceMiles *float64) Candidate {
	return Candidate{
		ID:            NearbyCandidateID(name, lat, lon),
		Name:          strings.TrimSpace(name),
		Cuisines:      []string{},
		DistanceMiles: copyFloat(distanceMiles),
		Latitude:      &lat,
		Longitude:     &lon,
		Source:        SourceNearby,
		IsNew:         true,
	}
}

// SavedCandidateID returns the identity of a saved restaurant.
func SavedCandidateID(restaurantID string) string {
	return savedIDPrefix + strings.ToLower(restaurantID)
}

// NearbyCandidateID returns the identity of a nearby place. Coordinates are
// rounded to 5 decimals (about a meter) so repeated scans of the same place
// collapse to one identity.
func NearbyCandidateID(name string, lat, lon float64) string {
	var b strings.Builder
	b.WriteString(identityName(name))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(lat, 'f', 5, 64))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(lon, 'f', 5, 64))
	return b.String()
}

// NormalizeName trims and lowercases a name for cross-source comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// identityName also collapses runs of inner whitespace.
func identityName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
