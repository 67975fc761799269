// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/wheretoeat/internal/recommend"
)

// nearbyPriceLevel is the price tier given to places saved from a scan.
const nearbyPriceLevel = 2

// SaveNearbyCandidate turns a nearby place into a saved restaurant. When a
// restaurant with the same normalized name already exists it is returned
// unchanged and created is false.
//
//nolint:gocritic // hugeParam: candidate is read-only
func (db *DB) SaveNearbyCandidate(ctx context.Context, c recommend.Candidate) (restaurant *recommend.Restaurant, created bool, err error) {
	existing, err := db.FindRestaurantByName(ctx, c.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrRestaurantNotFound) {
		return nil, false, err
	}

	r := &recommend.Restaurant{
		Name:          c.Name,
		Cuisines:      []string{},
		PriceLevel:    nearbyPriceLevel,
		DistanceMiles: c.DistanceMiles,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		IsNew:         true,
	}
	if err := db.CreateRestaurant(ctx, r); err != nil {
		return nil, false, fmt.Errorf("failed to save nearby place: %w", err)
	}
	return r, true, nil
}
