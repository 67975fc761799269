// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/wheretoeat/internal/cache"
)

// placesFile is the YAML layout of a local places file:
//
//	places:
//	  - name: Pho Corner
//	    latitude: 37.7793
//	    longitude: -122.4192
type placesFile struct {
	Places []Place `yaml:"places"`
}

// LoadPlacesFile reads places from a YAML file.
func LoadPlacesFile(path string) ([]Place, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read places file: %w", err)
	}
	return ParsePlaces(data)
}

// ParsePlaces decodes the YAML places layout. Entries with invalid
// coordinates are rejected.
func ParsePlaces(data []byte) ([]Place, error) {
	var file placesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse places file: %w", err)
	}
	for i, p := range file.Places {
		if !p.Coordinate().Valid() {
			return nil, fmt.Errorf("place %d (%q): %w", i, p.Name, ErrInvalidCoordinate)
		}
	}
	return file.Places, nil
}

// IndexSearcher answers searches from an in-memory spatial index, for
// offline use or when no external provider is configured.
type IndexSearcher struct {
	index *cache.PlaceIndex[Place]
}

// NewIndexSearcher indexes places in 1 km cells.
func NewIndexSearcher(places []Place) *IndexSearcher {
	idx := cache.NewPlaceIndex[Place](1)
	for i, p := range places {
		idx.Insert(strconv.Itoa(i), p.Latitude, p.Longitude, p)
	}
	return &IndexSearcher{index: idx}
}

// Name returns the provider name.
func (s *IndexSearcher) Name() string {
	return "index"
}

// Len returns the number of indexed places.
func (s *IndexSearcher) Len() int {
	return s.index.Len()
}

// Search returns indexed places within the radius, nearest first.
func (s *IndexSearcher) Search(ctx context.Context, center Coordinate, radiusMeters float64) ([]Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}

	matches := s.index.Within(center.Latitude, center.Longitude, radiusMeters/1000)
	places := make([]Place, 0, len(matches))
	for i := range matches {
		places = append(places, matches[i].Value)
	}
	return places, nil
}
