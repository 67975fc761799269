// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import "context"

// Place is a raw search hit.
type Place struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Coordinate returns the place's position.
func (p Place) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// PlaceSearcher finds restaurants around a point.
type PlaceSearcher interface {
	// Search returns places within radiusMeters of center. Results may contain
	// duplicates and entries without names; the Scanner filters them.
	Search(ctx context.Context, center Coordinate, radiusMeters float64) ([]Place, error)

	// Name returns the provider name for logging and metrics.
	Name() string
}
