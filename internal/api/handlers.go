// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"context"
	"time"

	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/picker"
	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/session"
)

// Picker runs pick sessions. Implemented by *picker.Service.
type Picker interface {
	Pick(ctx context.Context, req session.Request) (*session.Session, error)
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	Veto(ctx context.Context, sessionID, candidateID string) (*session.Session, error)
	SpinAgain(ctx context.Context, sessionID string) (*session.Session, error)
	Choose(ctx context.Context, sessionID, candidateID string) (*picker.ChooseResult, error)
	SaveNearby(ctx context.Context, sessionID, candidateID string) (*picker.SaveResult, error)
	ScanNearby(ctx context.Context, lat, lon *float64, radiusMiles float64) ([]recommend.Candidate, nearby.Coordinate, error)
	NearbyEnabled() bool
}

// RestaurantStore manages saved restaurants and visits. Implemented by
// *database.DB.
type RestaurantStore interface {
	ListRestaurants(ctx context.Context) ([]recommend.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*recommend.Restaurant, error)
	CreateRestaurant(ctx context.Context, r *recommend.Restaurant) error
	UpdateRestaurant(ctx context.Context, r *recommend.Restaurant) error
	DeleteRestaurant(ctx context.Context, id string) error
	ListVisits(ctx context.Context, since *time.Time) ([]recommend.Visit, error)
	SetVisitRating(ctx context.Context, visitID string, rating *int) (*recommend.Visit, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness probes
//   - handlers_picks.go: pick sessions
//   - handlers_restaurants.go: saved restaurants
//   - handlers_visits.go: visit history and ratings
//   - handlers_nearby.go: nearby scans
type Handler struct {
	picker    Picker
	store     RestaurantStore
	db        Pinger
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates the API handler. db is pinged by the readiness probe.
func NewHandler(p Picker, store RestaurantStore, db Pinger) *Handler {
	return &Handler{
		picker:    p,
		store:     store,
		db:        db,
		startTime: time.Now(),
		now:       time.Now,
	}
}
