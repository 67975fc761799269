// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/wheretoeat/internal/logging"
	"github.com/tomtom215/wheretoeat/internal/recommend"
)

type seedRestaurant struct {
	name       string
	cuisines   []string
	price      int
	distance   float64
	favorite   bool
	isNew      bool
	daysAgo    int // 0 means never visited
	visitCount int
	rating     *int
}

func rated(v int) *int { return &v }

var defaultRestaurants = []seedRestaurant{
	{name: "Golden Wok", cuisines: []string{"Chinese"}, price: 2, distance: 1.2, favorite: true, daysAgo: 10, visitCount: 6, rating: rated(1)},
	{name: "Seoul Table", cuisines: []string{"Korean"}, price: 2, distance: 2.5, isNew: true},
	{name: "Sakura Bento", cuisines: []string{"Japanese"}, price: 2, distance: 0.9, favorite: true, daysAgo: 3, visitCount: 12, rating: rated(1)},
	{name: "Bangkok Street", cuisines: []string{"Thai"}, price: 2, distance: 3.1, daysAgo: 30, visitCount: 2, rating: rated(0)},
	{name: "Spice Route", cuisines: []string{"Indian"}, price: 3, distance: 4.0, favorite: true, daysAgo: 21, visitCount: 5, rating: rated(1)},
	{name: "Patty Lab", cuisines: []string{"Burgers"}, price: 2, distance: 1.8, isNew: true},
	{name: "Brick Oven Co.", cuisines: []string{"Pizza"}, price: 2, distance: 2.2, favorite: true, daysAgo: 14, visitCount: 8, rating: rated(1)},
	{name: "Casa Verde", cuisines: []string{"Mexican"}, price: 2, distance: 2.9, daysAgo: 60, visitCount: 3, rating: rated(0)},
	{name: "Harvest Bowl", cuisines: []string{"Healthy"}, price: 3, distance: 1.1, isNew: true},
	{name: "Pho Corner", cuisines: []string{"Vietnamese"}, price: 2, distance: 3.8, favorite: true, daysAgo: 7, visitCount: 7, rating: rated(1)},
	{name: "Mediterranean Grill", cuisines: []string{"Mediterranean"}, price: 3, distance: 4.6, daysAgo: 45, visitCount: 2, rating: rated(0)},
	{name: "Taco Garage", cuisines: []string{"Mexican", "Street Food"}, price: 1, distance: 2.0, isNew: true},
	{name: "Ramen Engine", cuisines: []string{"Japanese", "Ramen"}, price: 2, distance: 2.7, favorite: true, daysAgo: 5, visitCount: 9, rating: rated(1)},
	{name: "Green Leaf Cafe", cuisines: []string{"Healthy", "Cafe"}, price: 2, distance: 0.6, daysAgo: 18, visitCount: 4, rating: rated(0)},
	{name: "Smokehouse Yard", cuisines: []string{"BBQ"}, price: 3, distance: 5.4, isNew: true},
}

// SeedRestaurants inserts the default restaurant list when the table is
// empty and returns how many rows were added. Last-visited times are set
// relative to now.
func (db *DB) SeedRestaurants(ctx context.Context, now time.Time) (int, error) {
	count, err := db.CountRestaurants(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i := range defaultRestaurants {
		seed := &defaultRestaurants[i]
		distance := seed.distance
		r := &recommend.Restaurant{
			Name:          seed.name,
			Cuisines:      append([]string(nil), seed.cuisines...),
			PriceLevel:    seed.price,
			DistanceMiles: &distance,
			IsFavorite:    seed.favorite,
			IsNew:         seed.isNew,
			VisitCount:    seed.visitCount,
			UserRating:    seed.rating,
			CreatedAt:     now,
		}
		if seed.daysAgo > 0 {
			last := now.Add(-time.Duration(seed.daysAgo) * 24 * time.Hour)
			r.LastVisited = &last
		}
		if err := db.CreateRestaurant(ctx, r); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", seed.name, err)
		}
	}

	logging.Info().Int("count", len(defaultRestaurants)).Msg("Seeded default restaurants")
	return len(defaultRestaurants), nil
}
