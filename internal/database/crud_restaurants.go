// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/wheretoeat/internal/recommend"
)

// ListRestaurants returns every saved restaurant ordered by name.
func (db *DB) ListRestaurants(ctx context.Context) (result []recommend.Restaurant, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("list", "restaurants", start, err) }(time.Now())

	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY normalized_name, id`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer closeWithLog(rows, "rows")

	restaurants := make([]recommend.Restaurant, 0)
	for rows.Next() {
		r, scanErr := scanRestaurant(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", scanErr)
		}
		restaurants = append(restaurants, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}
	return restaurants, nil
}

// GetRestaurant retrieves a restaurant by ID.
func (db *DB) GetRestaurant(ctx context.Context, id string) (*recommend.Restaurant, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return r, nil
}

// FindRestaurantByName returns the oldest restaurant whose trimmed,
// lowercased name equals the given name's, or ErrRestaurantNotFound.
func (db *DB) FindRestaurantByName(ctx context.Context, name string) (*recommend.Restaurant, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + restaurantColumns + ` FROM restaurants
		WHERE normalized_name = ? ORDER BY created_at, id LIMIT 1`

	r, err := scanRestaurant(db.conn.QueryRowContext(ctx, query, recommend.NormalizeName(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant: %w", err)
	}
	return r, nil
}

// CreateRestaurant inserts a restaurant. Missing ID and CreatedAt are
// filled in and out-of-range fields are clamped before insert.
func (db *DB) CreateRestaurant(ctx context.Context, r *recommend.Restaurant) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("insert", "restaurants", start, err) }(time.Now())

	r.Normalize()
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRestaurant)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	cuisines, err := encodeCuisines(r.Cuisines)
	if err != nil {
		return err
	}

	query := `INSERT INTO restaurants (
		id, name, normalized_name, cuisines, price_level, distance_miles, latitude, longitude,
		is_favorite, is_new, last_visited, visit_count, user_rating, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.conn.ExecContext(ctx, query,
		r.ID, r.Name, recommend.NormalizeName(r.Name), cuisines, r.PriceLevel,
		nullable(r.DistanceMiles), nullable(r.Latitude), nullable(r.Longitude),
		r.IsFavorite, r.IsNew, nullableTime(r.LastVisited), r.VisitCount,
		nullable(r.UserRating), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// UpdateRestaurant saves the editable fields of a restaurant: name,
// cuisines, price level, distance, coordinates and the favorite and new
// flags. Visit-derived fields are owned by RecordVisit and SetVisitRating.
func (db *DB) UpdateRestaurant(ctx context.Context, r *recommend.Restaurant) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("update", "restaurants", start, err) }(time.Now())

	r.Normalize()
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRestaurant)
	}

	cuisines, err := encodeCuisines(r.Cuisines)
	if err != nil {
		return err
	}

	query := `UPDATE restaurants SET
		name = ?, normalized_name = ?, cuisines = ?, price_level = ?,
		distance_miles = ?, latitude = ?, longitude = ?,
		is_favorite = ?, is_new = ?
	WHERE id = ?`

	result, err := db.conn.ExecContext(ctx, query,
		r.Name, recommend.NormalizeName(r.Name), cuisines, r.PriceLevel,
		nullable(r.DistanceMiles), nullable(r.Latitude), nullable(r.Longitude),
		r.IsFavorite, r.IsNew, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// DeleteRestaurant removes a restaurant and all of its visits.
func (db *DB) DeleteRestaurant(ctx context.Context, id string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("delete", "restaurants", start, err) }(time.Now())

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollback(tx, err) }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM visits WHERE restaurant_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete visits: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = ErrRestaurantNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountRestaurants returns the number of saved restaurants.
func (db *DB) CountRestaurants(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count restaurants: %w", err)
	}
	return count, nil
}
