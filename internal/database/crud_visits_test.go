// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/wheretoeat/internal/recommend"
)

func TestRecordVisit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := createTestRestaurant(t, db, "Seoul Table", "Korean")

	visit, err := db.RecordVisit(ctx, r.ID, testNow)
	if err != nil {
		t.Fatalf("RecordVisit() error = %v", err)
	}
	if visit.ID == "" || visit.RestaurantID != r.ID || !visit.Date.Equal(testNow) || visit.Rating != nil {
		t.Errorf("visit = %+v", visit)
	}

	got, err := db.GetRestaurant(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.VisitCount != 1 || got.IsNew || got.LastVisited == nil || !got.LastVisited.Equal(testNow) {
		t.Errorf("after first visit: %+v", got)
	}

	// A backfilled older visit counts but does not move last visited back.
	if _, err := db.RecordVisit(ctx, r.ID, testNow.Add(-72*time.Hour)); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetRestaurant(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.VisitCount != 2 || !got.LastVisited.Equal(testNow) {
		t.Errorf("after backfill: count=%d last=%v", got.VisitCount, got.LastVisited)
	}

	if _, err := db.RecordVisit(ctx, "missing", testNow); !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("RecordVisit(missing) error = %v", err)
	}
	visits, err := db.ListVisits(ctx, nil)
	if err != nil || len(visits) != 2 {
		t.Errorf("ListVisits() = %d, %v", len(visits), err)
	}
}

func TestListVisits_Since(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := createTestRestaurant(t, db, "Pho Corner")

	for _, days := range []int{1, 6, 7, 8, 30} {
		if _, err := db.RecordVisit(ctx, r.ID, testNow.Add(-time.Duration(days)*24*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	since := testNow.Add(-7 * 24 * time.Hour)
	got, err := db.ListVisits(ctx, &since)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("ListVisits(since 7d) returned %d visits, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Errorf("visits not newest first: %v after %v", got[i].Date, got[i-1].Date)
		}
	}
	if !got[2].Date.Equal(since) {
		t.Errorf("boundary visit missing: oldest = %v", got[2].Date)
	}
}

func TestSetVisitRating_SyncsMostRecentRated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := createTestRestaurant(t, db, "Casa Verde", "Mexican")

	older, err := db.RecordVisit(ctx, r.ID, testNow.Add(-10*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	newer, err := db.RecordVisit(ctx, r.ID, testNow.Add(-2*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		name       string
		visitID    string
		rating     *int
		wantRating *int
	}{
		{name: "rate older visit", visitID: older.ID, rating: intPtrOf(recommend.RatingLike), wantRating: intPtrOf(1)},
		{name: "rate newer visit", visitID: newer.ID, rating: intPtrOf(recommend.RatingDislike), wantRating: intPtrOf(-1)},
		{name: "re-rate older leaves newer in charge", visitID: older.ID, rating: intPtrOf(recommend.RatingNeutral), wantRating: intPtrOf(-1)},
		{name: "clear newer falls back to older", visitID: newer.ID, rating: nil, wantRating: intPtrOf(0)},
		{name: "out of range clears", visitID: older.ID, rating: intPtrOf(4), wantRating: nil},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			v, err := db.SetVisitRating(ctx, step.visitID, step.rating)
			if err != nil {
				t.Fatalf("SetVisitRating() error = %v", err)
			}
			if v.ID != step.visitID {
				t.Errorf("returned visit %s", v.ID)
			}

			got, err := db.GetRestaurant(ctx, r.ID)
			if err != nil {
				t.Fatal(err)
			}
			switch {
			case step.wantRating == nil && got.UserRating != nil:
				t.Errorf("UserRating = %d, want nil", *got.UserRating)
			case step.wantRating != nil && (got.UserRating == nil || *got.UserRating != *step.wantRating):
				t.Errorf("UserRating = %v, want %d", got.UserRating, *step.wantRating)
			}
		})
	}

	if _, err := db.SetVisitRating(ctx, "missing", intPtrOf(1)); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("SetVisitRating(missing) error = %v", err)
	}
	if _, err := db.GetVisit(ctx, "missing"); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("GetVisit(missing) error = %v", err)
	}
}

func TestSaveNearbyCandidate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	distance := 0.4
	c := recommend.FromNearby("Taqueria Sol", 37.776, -122.417, &distance)

	first, created, err := db.SaveNearbyCandidate(ctx, c)
	if err != nil || !created {
		t.Fatalf("SaveNearbyCandidate() = %v, %v", created, err)
	}
	if first.PriceLevel != 2 || !first.IsNew || len(first.Cuisines) != 0 {
		t.Errorf("saved restaurant = %+v", first)
	}
	if first.DistanceMiles == nil || *first.DistanceMiles != distance || first.Latitude == nil || *first.Latitude != 37.776 {
		t.Errorf("distance/coordinates not carried over: %+v", first)
	}

	again := recommend.FromNearby("  taqueria sol ", 37.7761, -122.4171, nil)
	second, created, err := db.SaveNearbyCandidate(ctx, again)
	if err != nil || created {
		t.Fatalf("second save = %v, %v", created, err)
	}
	if second.ID != first.ID {
		t.Errorf("second save returned %s, want %s", second.ID, first.ID)
	}

	count, err := db.CountRestaurants(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountRestaurants() = %d, %v", count, err)
	}
}

func TestSeedRestaurants(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	added, err := db.SeedRestaurants(ctx, testNow)
	if err != nil {
		t.Fatalf("SeedRestaurants() error = %v", err)
	}
	if added != 15 {
		t.Errorf("SeedRestaurants() added %d, want 15", added)
	}

	again, err := db.SeedRestaurants(ctx, testNow)
	if err != nil || again != 0 {
		t.Errorf("second SeedRestaurants() = %d, %v", again, err)
	}

	wok, err := db.FindRestaurantByName(ctx, "golden wok")
	if err != nil {
		t.Fatal(err)
	}
	wantLast := testNow.Add(-10 * 24 * time.Hour)
	if !wok.IsFavorite || wok.VisitCount != 6 || wok.LastVisited == nil || !wok.LastVisited.Equal(wantLast) {
		t.Errorf("Golden Wok = %+v", wok)
	}

	taco, err := db.FindRestaurantByName(ctx, "Taco Garage")
	if err != nil {
		t.Fatal(err)
	}
	if taco.PriceLevel != 1 || !taco.IsNew || taco.LastVisited != nil || len(taco.Cuisines) != 2 {
		t.Errorf("Taco Garage = %+v", taco)
	}
}
