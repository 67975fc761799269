// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the tables and indexes if they do not exist.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			normalized_name VARCHAR NOT NULL,
			cuisines VARCHAR NOT NULL DEFAULT '[]',
			price_level INTEGER NOT NULL DEFAULT 2,
			distance_miles DOUBLE,
			latitude DOUBLE,
			longitude DOUBLE,
			is_favorite BOOLEAN NOT NULL DEFAULT false,
			is_new BOOLEAN NOT NULL DEFAULT true,
			last_visited TIMESTAMP,
			visit_count INTEGER NOT NULL DEFAULT 0,
			user_rating INTEGER,
			created_at TIMESTAMP NOT NULL
		)`,

		// No FOREIGN KEY: DuckDB has no ON DELETE CASCADE, the store removes
		// a restaurant's visits itself.
		`CREATE TABLE IF NOT EXISTS visits (
			id VARCHAR PRIMARY KEY,
			restaurant_id VARCHAR NOT NULL,
			visited_at TIMESTAMP NOT NULL,
			rating INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_restaurant ON visits(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at)`,
	}
}
