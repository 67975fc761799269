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

// ListVisits returns visits newest first. A non-nil since limits the result
// to visits at or after that instant.
func (db *DB) ListVisits(ctx context.Context, since *time.Time) (result []recommend.Visit, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("list", "visits", start, err) }(time.Now())

	query := `SELECT id, restaurant_id, visited_at, rating FROM visits`
	args := []any{}
	if since != nil {
		query += ` WHERE visited_at >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY visited_at DESC, id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer closeWithLog(rows, "rows")

	visits := make([]recommend.Visit, 0)
	for rows.Next() {
		v, scanErr := scanVisit(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", scanErr)
		}
		visits = append(visits, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}
	return visits, nil
}

// GetVisit retrieves a visit by ID.
func (db *DB) GetVisit(ctx context.Context, id string) (*recommend.Visit, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT id, restaurant_id, visited_at, rating FROM visits WHERE id = ?`, id)
	v, err := scanVisit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return v, nil
}

// RecordVisit logs an unrated visit at the given time and updates the
// restaurant: last visited moves forward to at, the visit count grows by
// one and the restaurant is no longer new.
func (db *DB) RecordVisit(ctx context.Context, restaurantID string, at time.Time) (visit *recommend.Visit, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("insert", "visits", start, err) }(time.Now())

	at = at.UTC()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollback(tx, err) }()

	result, err := tx.ExecContext(ctx, `UPDATE restaurants SET
		last_visited = CASE WHEN last_visited IS NULL OR last_visited < ? THEN ? ELSE last_visited END,
		visit_count = visit_count + 1,
		is_new = false
	WHERE id = ?`, at, at, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = ErrRestaurantNotFound
		return nil, err
	}

	v := &recommend.Visit{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Date:         at,
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO visits (id, restaurant_id, visited_at, rating) VALUES (?, ?, ?, NULL)`,
		v.ID, v.RestaurantID, v.Date,
	); err != nil {
		return nil, fmt.Errorf("failed to insert visit: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return v, nil
}

// SetVisitRating rates a visit (nil clears the rating) and syncs the
// restaurant's rating to that of its most recent rated visit. Ratings
// outside {-1, 0, 1} are stored as nil.
func (db *DB) SetVisitRating(ctx context.Context, visitID string, rating *int) (visit *recommend.Visit, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("update", "visits", start, err) }(time.Now())

	rating = recommend.NormalizeRating(rating)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollback(tx, err) }()

	v, err := scanVisit(tx.QueryRowContext(ctx,
		`SELECT id, restaurant_id, visited_at, rating FROM visits WHERE id = ?`, visitID))
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrVisitNotFound
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE visits SET rating = ? WHERE id = ?`, nullable(rating), visitID); err != nil {
		return nil, fmt.Errorf("failed to update visit: %w", err)
	}
	v.Rating = rating

	var latest sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT rating FROM visits
		WHERE restaurant_id = ? AND rating IS NOT NULL
		ORDER BY visited_at DESC, id LIMIT 1`, v.RestaurantID).Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to find latest rating: %w", err)
	}
	err = nil

	if _, err = tx.ExecContext(ctx, `UPDATE restaurants SET user_rating = ? WHERE id = ?`,
		nullable(intPtr(latest)), v.RestaurantID); err != nil {
		return nil, fmt.Errorf("failed to sync restaurant rating: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return v, nil
}
