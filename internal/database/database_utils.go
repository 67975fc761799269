// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wheretoeat/internal/logging"
	"github.com/tomtom215/wheretoeat/internal/metrics"
	"github.com/tomtom215/wheretoeat/internal/recommend"
)

// ensureContext creates a context with 30-second timeout if none provided
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}

	return ctx, func() {}
}

// observe records the duration and outcome of a query.
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// rollback aborts tx when err is set, logging a failed rollback.
func rollback(tx *sql.Tx, err error) {
	if err == nil {
		return
	}
	if rbErr := tx.Rollback(); rbErr != nil {
		logging.Error().
			Err(rbErr).
			AnErr("original_error", err).
			Msg("Transaction rollback failed")
	}
}

const restaurantColumns = `id, name, cuisines, price_level, distance_miles, latitude, longitude,
	is_favorite, is_new, last_visited, visit_count, user_rating, created_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*recommend.Restaurant, error) {
	var (
		r           recommend.Restaurant
		cuisines    string
		distance    sql.NullFloat64
		lat, lon    sql.NullFloat64
		lastVisited sql.NullTime
		rating      sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &r.Name, &cuisines, &r.PriceLevel, &distance, &lat, &lon,
		&r.IsFavorite, &r.IsNew, &lastVisited, &r.VisitCount, &rating, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Cuisines, err = decodeCuisines(cuisines)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", r.ID, err)
	}
	r.DistanceMiles = floatPtr(distance)
	r.Latitude = floatPtr(lat)
	r.Longitude = floatPtr(lon)
	if lastVisited.Valid {
		t := lastVisited.Time.UTC()
		r.LastVisited = &t
	}
	r.UserRating = intPtr(rating)
	r.CreatedAt = r.CreatedAt.UTC()
	r.Normalize()
	return &r, nil
}

func scanVisit(row rowScanner) (*recommend.Visit, error) {
	var (
		v      recommend.Visit
		rating sql.NullInt64
	)
	if err := row.Scan(&v.ID, &v.RestaurantID, &v.Date, &rating); err != nil {
		return nil, err
	}
	v.Date = v.Date.UTC()
	v.Rating = recommend.NormalizeRating(intPtr(rating))
	return &v, nil
}

func encodeCuisines(cuisines []string) (string, error) {
	if cuisines == nil {
		cuisines = []string{}
	}
	data, err := json.Marshal(cuisines)
	if err != nil {
		return "", fmt.Errorf("failed to encode cuisines: %w", err)
	}
	return string(data), nil
}

func decodeCuisines(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var cuisines []string
	if err := json.Unmarshal([]byte(raw), &cuisines); err != nil {
		return nil, fmt.Errorf("failed to decode cuisines: %w", err)
	}
	if cuisines == nil {
		cuisines = []string{}
	}
	return cuisines, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// nullable converts an optional value into a driver argument.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
