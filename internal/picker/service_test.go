// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/session"
)

var testNow = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

var errRestaurantMissing = errors.New("restaurant not found")

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	mu          sync.Mutex
	order       []string
	restaurants map[string]*recommend.Restaurant
	visits      []recommend.Visit
	listErr     error
	saveCalls   int
	nextID      int
}

func newFakeRepo(rs ...recommend.Restaurant) *fakeRepo {
	repo := &fakeRepo{restaurants: make(map[string]*recommend.Restaurant)}
	for i := range rs {
		r := rs[i]
		r.Normalize()
		repo.order = append(repo.order, r.ID)
		repo.restaurants[r.ID] = &r
	}
	return repo
}

func (f *fakeRepo) ListRestaurants(context.Context) ([]recommend.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]recommend.Restaurant, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.restaurants[id])
	}
	return out, nil
}

func (f *fakeRepo) GetRestaurant(_ context.Context, id string) (*recommend.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[id]
	if !ok {
		return nil, errRestaurantMissing
	}
	c := *r
	return &c, nil
}

func (f *fakeRepo) ListVisits(_ context.Context, since *time.Time) ([]recommend.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recommend.Visit
	for _, v := range f.visits {
		if since == nil || !v.Date.Before(*since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRepo) RecordVisit(_ context.Context, restaurantID string, at time.Time) (*recommend.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[restaurantID]
	if !ok {
		return nil, errRestaurantMissing
	}
	r.VisitCount++
	r.IsNew = false
	t := at
	r.LastVisited = &t
	v := recommend.Visit{ID: fmt.Sprintf("v-%d", len(f.visits)+1), RestaurantID: restaurantID, Date: at}
	f.visits = append(f.visits, v)
	return &v, nil
}

func (f *fakeRepo) SaveNearbyCandidate(_ context.Context, c recommend.Candidate) (*recommend.Restaurant, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	for _, id := range f.order {
		if recommend.NormalizeName(f.restaurants[id].Name) == recommend.NormalizeName(c.Name) {
			r := *f.restaurants[id]
			return &r, false, nil
		}
	}
	f.nextID++
	r := &recommend.Restaurant{
		ID:            fmt.Sprintf("saved-%d", f.nextID),
		Name:          c.Name,
		Cuisines:      []string{},
		PriceLevel:    2,
		DistanceMiles: c.DistanceMiles,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		IsNew:         true,
		CreatedAt:     testNow,
	}
	f.order = append(f.order, r.ID)
	f.restaurants[r.ID] = r
	c2 := *r
	return &c2, true, nil
}

// stubScanner returns fixed candidates and records the scan center.
type stubScanner struct {
	mu         sync.Mutex
	candidates []recommend.Candidate
	err        error
	centers    []nearby.Coordinate
}

func (s *stubScanner) ScanAround(ctx context.Context, at nearby.Positioner, _ float64) ([]recommend.Candidate, nearby.Coordinate, error) {
	center, err := at.Locate(ctx)
	if err != nil {
		return nil, nearby.Coordinate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centers = append(s.centers, center)
	if s.err != nil {
		return nil, center, s.err
	}
	return append([]recommend.Candidate(nil), s.candidates...), center, nil
}

type stubLocator struct {
	at  nearby.Coordinate
	err error
}

func (l stubLocator) Locate(context.Context) (nearby.Coordinate, error) {
	return l.at, l.err
}

func floatPtr(v float64) *float64 { return &v }

func restaurants(n int) []recommend.Restaurant {
	names := []string{"Golden Wok", "Seoul Table", "Sakura Bento", "Pho Corner", "Taco Stand", "Curry House", "Pasta Bar"}
	out := make([]recommend.Restaurant, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, recommend.Restaurant{
			ID:         fmt.Sprintf("r%d", i+1),
			Name:       names[i%len(names)],
			Cuisines:   []string{fmt.Sprintf("cuisine-%d", i)},
			PriceLevel: 2,
		})
	}
	return out
}

func newTestService(t *testing.T, repo *fakeRepo, opts Options) (*Service, *session.MemoryStore) {
	t.Helper()
	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	var svc *Service
	// The store reads the service clock so both agree on expiry.
	store := session.NewMemoryStoreWithClock(func() time.Time { return svc.now() })
	svc = NewService(repo, store, engine, opts, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func candidateIDs(cs []recommend.Candidate) []string {
	ids := make([]string, len(cs))
	for i := range cs {
		ids[i] = cs[i].ID
	}
	return ids
}

func TestPick_SavedOnly(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(5)...)
	svc, store := newTestService(t, repo, Options{})

	sess, err := svc.Pick(context.Background(), session.Request{})
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if len(sess.Pool) != 5 {
		t.Errorf("len(Pool) = %d, want 5", len(sess.Pool))
	}
	if len(sess.Picks) != 3 {
		t.Fatalf("len(Picks) = %d, want 3", len(sess.Picks))
	}
	seen := map[string]bool{}
	for _, p := range sess.Picks {
		if seen[p.ID] {
			t.Errorf("duplicate pick %q", p.ID)
		}
		seen[p.ID] = true
		if !p.IsSaved() {
			t.Errorf("pick %q is not saved", p.ID)
		}
	}
	if sess.Request.Mode != recommend.ModeBalanced {
		t.Errorf("Mode = %q, want balanced default", sess.Request.Mode)
	}
	if !sess.ExpiresAt.Equal(testNow.Add(DefaultSessionTTL)) {
		t.Errorf("ExpiresAt = %v", sess.ExpiresAt)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestPick_ExcludesRecentVisits(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(4)...)
	repo.visits = []recommend.Visit{
		{ID: "v1", RestaurantID: "r1", Date: testNow.Add(-2 * 24 * time.Hour)},
		{ID: "v2", RestaurantID: "r2", Date: testNow.Add(-30 * 24 * time.Hour)},
	}
	svc, _ := newTestService(t, repo, Options{})

	for i := 0; i < 20; i++ {
		sess, err := svc.Pick(context.Background(), session.Request{})
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range sess.Picks {
			if p.ID == recommend.SavedCandidateID("r1") {
				t.Fatalf("recently visited r1 was picked on round %d", i)
			}
		}
	}
}

func TestPick_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.listErr = errors.New("duckdb closed")
	svc, _ := newTestService(t, repo, Options{})

	if _, err := svc.Pick(context.Background(), session.Request{}); !errors.Is(err, repo.listErr) {
		t.Errorf("Pick() error = %v, want wrapped repository error", err)
	}
}

func TestPick_WithNearby(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(2)...)
	scanner := &stubScanner{candidates: []recommend.Candidate{
		recommend.FromNearby("golden wok ", 37.7749, -122.4194, floatPtr(0.2)),
		recommend.FromNearby("Corner Deli", 37.7750, -122.4195, floatPtr(0.3)),
	}}
	svc, _ := newTestService(t, repo, Options{Scanner: scanner})

	sess, err := svc.Pick(context.Background(), session.Request{
		IncludeNearby: true,
		Latitude:      floatPtr(37.7749),
		Longitude:     floatPtr(-122.4194),
	})
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if sess.NearbyError != "" {
		t.Errorf("NearbyError = %q", sess.NearbyError)
	}
	// Golden Wok is already saved, so only Corner Deli joins the pool.
	if len(sess.Pool) != 3 {
		t.Fatalf("Pool = %v, want 2 saved + 1 nearby", candidateIDs(sess.Pool))
	}
	if sess.Pool[2].Name != "Corner Deli" {
		t.Errorf("Pool[2] = %q", sess.Pool[2].Name)
	}
	if len(scanner.centers) != 1 || scanner.centers[0].Latitude != 37.7749 {
		t.Errorf("scan centers = %+v", scanner.centers)
	}
}

func TestPick_OnlyNearbyUsesLocator(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(3)...)
	scanner := &stubScanner{candidates: []recommend.Candidate{
		recommend.FromNearby("Corner Deli", 40.0, -75.0, nil),
	}}
	locator := stubLocator{at: nearby.Coordinate{Latitude: 40.0, Longitude: -75.0}}
	svc, _ := newTestService(t, repo, Options{Scanner: scanner, Locator: locator})

	sess, err := svc.Pick(context.Background(), session.Request{OnlyNearby: true})
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if !sess.Request.IncludeNearby {
		t.Error("only_nearby should imply include_nearby")
	}
	if len(sess.Pool) != 1 || len(sess.Picks) != 1 {
		t.Errorf("Pool = %v, Picks = %v", candidateIDs(sess.Pool), candidateIDs(sess.Picks))
	}
	if scanner.centers[0] != locator.at {
		t.Errorf("scan center = %+v, want located position", scanner.centers[0])
	}
}

func TestPick_NearbyFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		scanner    *stubScanner
		locator    Locator
		onlyNearby bool
		wantErr    error
		wantMsg    string
	}{
		{
			name:    "permission denied falls back",
			scanner: &stubScanner{},
			locator: stubLocator{err: nearby.ErrPermissionDenied},
			wantMsg: nearby.ErrPermissionDenied.Message,
		},
		{
			name:    "breaker open falls back",
			scanner: &stubScanner{err: fmt.Errorf("nearby search: %w", nearby.ErrSearchRejected)},
			locator: stubLocator{at: nearby.Coordinate{Latitude: 1, Longitude: 1}},
			wantMsg: "Nearby search is temporarily unavailable. Try again in a minute.",
		},
		{
			name:    "disabled falls back",
			wantMsg: "Nearby search is turned off.",
		},
		{
			name:       "timed out with only nearby",
			scanner:    &stubScanner{},
			locator:    stubLocator{err: nearby.ErrTimedOut},
			onlyNearby: true,
			wantErr:    nearby.ErrTimedOut,
		},
		{
			name:       "disabled with only nearby",
			onlyNearby: true,
			wantErr:    ErrNearbyDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := Options{Locator: tt.locator}
			if tt.scanner != nil {
				opts.Scanner = tt.scanner
			}
			svc, _ := newTestService(t, newFakeRepo(restaurants(3)...), opts)

			sess, err := svc.Pick(context.Background(), session.Request{IncludeNearby: true, OnlyNearby: tt.onlyNearby})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Pick() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Pick() error = %v", err)
			}
			if sess.NearbyError != tt.wantMsg {
				t.Errorf("NearbyError = %q, want %q", sess.NearbyError, tt.wantMsg)
			}
			if len(sess.Pool) != 3 || len(sess.Picks) != 3 {
				t.Errorf("fallback pool = %d, picks = %d", len(sess.Pool), len(sess.Picks))
			}
		})
	}
}

func TestVeto_NeverReturnsVetoed(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(6)...)
	svc, _ := newTestService(t, repo, Options{})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{})
	if err != nil {
		t.Fatal(err)
	}

	vetoed := map[string]bool{}
	for len(sess.Picks) > 0 {
		target := sess.Picks[0].ID
		vetoed[target] = true

		sess, err = svc.Veto(ctx, sess.ID, target)
		if err != nil {
			t.Fatalf("Veto(%q) error = %v", target, err)
		}
		for _, p := range sess.Picks {
			if vetoed[p.ID] {
				t.Fatalf("vetoed candidate %q returned", p.ID)
			}
		}

		respun, err := svc.SpinAgain(ctx, sess.ID)
		if err != nil {
			t.Fatalf("SpinAgain() error = %v", err)
		}
		for _, p := range respun.Picks {
			if vetoed[p.ID] {
				t.Fatalf("vetoed candidate %q returned by spin", p.ID)
			}
		}
		sess = respun
	}

	if len(vetoed) != 6 {
		t.Errorf("vetoed %d candidates before the pool ran dry, want 6", len(vetoed))
	}
	stored, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Vetoed) != 6 || len(stored.Picks) != 0 {
		t.Errorf("stored Vetoed = %v, Picks = %v", stored.Vetoed, candidateIDs(stored.Picks))
	}
}

func TestVeto_Errors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newFakeRepo(restaurants(3)...), Options{})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Veto(ctx, sess.ID, "saved|nope"); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("Veto(unknown candidate) error = %v", err)
	}
	if _, err := svc.Veto(ctx, "missing", sess.Pool[0].ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Veto(unknown session) error = %v", err)
	}

	svc.now = func() time.Time { return testNow.Add(DefaultSessionTTL) }
	if _, err := svc.SpinAgain(ctx, sess.ID); !errors.Is(err, session.ErrSessionExpired) {
		t.Errorf("SpinAgain(expired) error = %v", err)
	}
}

func TestVeto_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newFakeRepo(restaurants(4)...), Options{})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{})
	if err != nil {
		t.Fatal(err)
	}
	id := sess.Pool[0].ID
	for i := 0; i < 2; i++ {
		if sess, err = svc.Veto(ctx, sess.ID, id); err != nil {
			t.Fatal(err)
		}
	}
	if len(sess.Vetoed) != 1 {
		t.Errorf("Vetoed = %v, want one entry", sess.Vetoed)
	}
}

func TestSpinAgain_KeepsPoolAndVetoes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newFakeRepo(restaurants(8)...), Options{})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{})
	if err != nil {
		t.Fatal(err)
	}
	vetoed := sess.Picks[0].ID
	if sess, err = svc.Veto(ctx, sess.ID, vetoed); err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return testNow.Add(time.Minute) }
	for i := 0; i < 10; i++ {
		spun, err := svc.SpinAgain(ctx, sess.ID)
		if err != nil {
			t.Fatalf("SpinAgain() error = %v", err)
		}
		if len(spun.Picks) != 3 {
			t.Fatalf("SpinAgain() returned %d picks, want 3", len(spun.Picks))
		}
		for _, p := range spun.Picks {
			if p.ID == vetoed {
				t.Fatalf("spin returned vetoed candidate %q", vetoed)
			}
		}
		if len(spun.Pool) != 8 {
			t.Errorf("Pool size = %d, want 8", len(spun.Pool))
		}
		if !spun.UpdatedAt.Equal(testNow.Add(time.Minute)) {
			t.Errorf("UpdatedAt = %v", spun.UpdatedAt)
		}
	}

	if _, err := svc.SpinAgain(ctx, "missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("SpinAgain(unknown session) error = %v", err)
	}
}

func TestChoose_Saved(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(3)...)
	svc, store := newTestService(t, repo, Options{})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{})
	if err != nil {
		t.Fatal(err)
	}
	chosen := sess.Picks[0]

	result, err := svc.Choose(ctx, sess.ID, chosen.ID)
	if err != nil {
		t.Fatalf("Choose() error = %v", err)
	}
	if result.Visit.RestaurantID != *chosen.SavedRestaurantID {
		t.Errorf("visit restaurant = %q", result.Visit.RestaurantID)
	}
	if !result.Visit.Date.Equal(testNow) {
		t.Errorf("visit date = %v", result.Visit.Date)
	}
	if result.Restaurant.VisitCount != 1 {
		t.Errorf("VisitCount = %d, want 1", result.Restaurant.VisitCount)
	}
	if store.Len() != 0 {
		t.Error("session should be deleted after choose")
	}
	if repo.saveCalls != 0 {
		t.Error("saved candidate should not be re-saved")
	}
}

func TestChoose_NearbySavesFirst(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(1)...)
	deli := recommend.FromNearby("Corner Deli", 37.7750, -122.4195, floatPtr(0.3))
	svc, _ := newTestService(t, repo, Options{Scanner: &stubScanner{candidates: []recommend.Candidate{deli}}})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{
		OnlyNearby: true,
		Latitude:   floatPtr(37.7749),
		Longitude:  floatPtr(-122.4194),
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Choose(ctx, sess.ID, deli.ID)
	if err != nil {
		t.Fatalf("Choose() error = %v", err)
	}
	if repo.saveCalls != 1 {
		t.Errorf("saveCalls = %d, want 1", repo.saveCalls)
	}
	if result.Restaurant.Name != "Corner Deli" || result.Restaurant.VisitCount != 1 {
		t.Errorf("Restaurant = %+v", result.Restaurant)
	}
	if result.Restaurant.IsNew {
		t.Error("a visited restaurant is no longer new")
	}
}

func TestSaveNearby(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(restaurants(2)...)
	deli := recommend.FromNearby("Corner Deli", 37.7750, -122.4195, floatPtr(0.3))
	svc, _ := newTestService(t, repo, Options{Scanner: &stubScanner{candidates: []recommend.Candidate{deli}}})
	ctx := context.Background()

	sess, err := svc.Pick(ctx, session.Request{
		IncludeNearby: true,
		Latitude:      floatPtr(37.7749),
		Longitude:     floatPtr(-122.4194),
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.SaveNearby(ctx, sess.ID, deli.ID)
	if err != nil {
		t.Fatalf("SaveNearby() error = %v", err)
	}
	if !result.Created {
		t.Error("first save should create a restaurant")
	}
	savedID := recommend.SavedCandidateID(result.Restaurant.ID)
	if _, ok := result.Session.FindCandidate(deli.ID); ok {
		t.Error("nearby candidate still in session pool")
	}
	if c, ok := result.Session.FindCandidate(savedID); !ok || !c.IsSaved() {
		t.Errorf("saved candidate %q missing from pool", savedID)
	}

	stored, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stored.FindCandidate(savedID); !ok {
		t.Error("session update not persisted")
	}

	again, err := svc.SaveNearby(ctx, sess.ID, savedID)
	if err != nil {
		t.Fatalf("SaveNearby(saved) error = %v", err)
	}
	if again.Created || again.Restaurant.ID != result.Restaurant.ID {
		t.Errorf("second save = %+v, want existing restaurant", again)
	}
	if repo.saveCalls != 1 {
		t.Errorf("saveCalls = %d, want 1", repo.saveCalls)
	}

	if _, err := svc.SaveNearby(ctx, sess.ID, deli.ID); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("SaveNearby(replaced id) error = %v", err)
	}
}

func TestScanNearby(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{}
	svc, _ := newTestService(t, newFakeRepo(), Options{Scanner: scanner})
	ctx := context.Background()

	if _, _, err := svc.ScanNearby(ctx, floatPtr(91), floatPtr(0), 1); !errors.Is(err, nearby.ErrInvalidCoordinate) {
		t.Errorf("invalid latitude error = %v", err)
	}
	if _, _, err := svc.ScanNearby(ctx, nil, nil, 1); !errors.Is(err, nearby.ErrLocationUnavailable) {
		t.Errorf("no locator error = %v", err)
	}

	_, center, err := svc.ScanNearby(ctx, floatPtr(10), floatPtr(20), 1)
	if err != nil {
		t.Fatal(err)
	}
	if center.Latitude != 10 || center.Longitude != 20 {
		t.Errorf("center = %+v", center)
	}

	disabled, _ := newTestService(t, newFakeRepo(), Options{})
	if disabled.NearbyEnabled() {
		t.Error("NearbyEnabled() = true without a scanner")
	}
	if _, _, err := disabled.ScanNearby(ctx, floatPtr(10), floatPtr(20), 1); !errors.Is(err, ErrNearbyDisabled) {
		t.Errorf("disabled error = %v", err)
	}
}

func TestPick_SeedIsReproducible(t *testing.T) {
	t.Parallel()

	run := func() []string {
		svc, _ := newTestService(t, newFakeRepo(restaurants(7)...), Options{Seed: 99})
		var ids []string
		for i := 0; i < 5; i++ {
			sess, err := svc.Pick(context.Background(), session.Request{Mode: recommend.ModeAdventure})
			if err != nil {
				t.Fatal(err)
			}
			ids = append(ids, candidateIDs(sess.Picks)...)
		}
		return ids
	}

	a, b := run(), run()
	if fmt.Sprint(a) != fmt.Sprint(b) {
		t.Errorf("same seed produced different picks:\n%v\n%v", a, b)
	}
}
