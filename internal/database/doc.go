// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

// Package database persists restaurants and visits in DuckDB.
//
// # Overview
//
// The store is the source of truth for saved restaurants and the visit
// history the picker reads on every request. Scores and picks are never
// persisted.
//
// Files:
//   - database.go: connection lifecycle (open, pool tuning, ping, close)
//   - database_schema.go: table and index creation
//   - database_utils.go: context defaults, row scanning, error classification
//   - crud_restaurants.go: restaurant CRUD and name lookup
//   - crud_visits.go: visit recording and rating sync
//   - crud_nearby.go: saving a nearby place as a restaurant
//   - seed.go: default restaurant list for an empty database
//
// # Schema
//
// restaurants keeps cuisines as a JSON array in a VARCHAR column and a
// normalized_name column (trimmed, lowercased) used to match nearby places
// against saved ones. visits references restaurants by id; deleting a
// restaurant removes its visits in the same transaction.
//
// # Timestamps
//
// All timestamps are stored as UTC TIMESTAMP values.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools the connections.
//
// # Example
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	restaurants, err := db.ListRestaurants(ctx)
//	visits, err := db.ListVisits(ctx, &since)
package database
