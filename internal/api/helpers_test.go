// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/database"
	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/picker"
	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/session"
)

// fakeStore is an in-memory restaurant store satisfying both RestaurantStore
// and picker.Repository.
type fakeStore struct {
	mu          sync.Mutex
	order       []string
	restaurants map[string]*recommend.Restaurant
	visits      []recommend.Visit
	nextID      int

	listErr error
	pingErr error
}

func newFakeStore(names ...string) *fakeStore {
	s := &fakeStore{restaurants: make(map[string]*recommend.Restaurant)}
	for _, name := range names {
		r := &recommend.Restaurant{Name: name, Cuisines: []string{"Test"}, PriceLevel: 2}
		if err := s.CreateRestaurant(context.Background(), r); err != nil {
			panic(err)
		}
	}
	return s
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ListRestaurants(context.Context) ([]recommend.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]recommend.Restaurant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.restaurants[id])
	}
	return out, nil
}

func (s *fakeStore) GetRestaurant(_ context.Context, id string) (*recommend.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.restaurants[id]
	if !ok {
		return nil, database.ErrRestaurantNotFound
	}
	c := *r
	return &c, nil
}

func (s *fakeStore) CreateRestaurant(_ context.Context, r *recommend.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Normalize()
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", database.ErrInvalidRestaurant)
	}
	s.nextID++
	r.ID = fmt.Sprintf("r-%d", s.nextID)
	c := *r
	s.restaurants[r.ID] = &c
	s.order = append(s.order, r.ID)
	return nil
}

func (s *fakeStore) UpdateRestaurant(_ context.Context, r *recommend.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restaurants[r.ID]; !ok {
		return database.ErrRestaurantNotFound
	}
	r.Normalize()
	c := *r
	s.restaurants[r.ID] = &c
	return nil
}

func (s *fakeStore) DeleteRestaurant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restaurants[id]; !ok {
		return database.ErrRestaurantNotFound
	}
	delete(s.restaurants, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) ListVisits(_ context.Context, since *time.Time) ([]recommend.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recommend.Visit
	for _, v := range s.visits {
		if since == nil || !v.Date.Before(*since) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *fakeStore) RecordVisit(_ context.Context, restaurantID string, at time.Time) (*recommend.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.restaurants[restaurantID]
	if !ok {
		return nil, database.ErrRestaurantNotFound
	}
	v := recommend.Visit{ID: fmt.Sprintf("v-%d", len(s.visits)+1), RestaurantID: restaurantID, Date: at}
	s.visits = append(s.visits, v)
	r.LastVisited = &at
	r.VisitCount++
	r.IsNew = false
	return &v, nil
}

func (s *fakeStore) SetVisitRating(_ context.Context, visitID string, rating *int) (*recommend.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.visits {
		if s.visits[i].ID == visitID {
			s.visits[i].Rating = recommend.NormalizeRating(rating)
			v := s.visits[i]
			return &v, nil
		}
	}
	return nil, database.ErrVisitNotFound
}

func (s *fakeStore) SaveNearbyCandidate(ctx context.Context, c recommend.Candidate) (*recommend.Restaurant, bool, error) {
	s.mu.Lock()
	for _, id := range s.order {
		if recommend.NormalizeName(s.restaurants[id].Name) == recommend.NormalizeName(c.Name) {
			existing := *s.restaurants[id]
			s.mu.Unlock()
			return &existing, false, nil
		}
	}
	s.mu.Unlock()

	r := &recommend.Restaurant{
		Name:          c.Name,
		PriceLevel:    2,
		IsNew:         true,
		DistanceMiles: c.DistanceMiles,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
	}
	if err := s.CreateRestaurant(ctx, r); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// stubScanner returns fixed candidates or a fixed error.
type stubScanner struct {
	candidates []recommend.Candidate
	err        error
}

func (s *stubScanner) ScanAround(ctx context.Context, at nearby.Positioner, _ float64) ([]recommend.Candidate, nearby.Coordinate, error) {
	center, err := at.Locate(ctx)
	if err != nil {
		return nil, nearby.Coordinate{}, err
	}
	return s.candidates, center, s.err
}

// stubLocator returns a fixed position or a fixed error.
type stubLocator struct {
	at  nearby.Coordinate
	err error
}

func (l *stubLocator) Locate(context.Context) (nearby.Coordinate, error) {
	return l.at, l.err
}

// testEnv is an API wired to fakes.
type testEnv struct {
	store   *fakeStore
	handler http.Handler
}

type envOptions struct {
	scanner *stubScanner
	locator *stubLocator
}

func newTestEnv(t *testing.T, store *fakeStore, opts envOptions) *testEnv {
	t.Helper()

	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	pickerOpts := picker.Options{Seed: 7}
	if opts.scanner != nil {
		pickerOpts.Scanner = opts.scanner
	}
	if opts.locator != nil {
		pickerOpts.Locator = opts.locator
	}
	svc := picker.NewService(store, session.NewMemoryStore(), engine, pickerOpts, zerolog.Nop())

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	router := NewRouter(NewHandler(svc, store, store), NewChiMiddleware(mwCfg))

	return &testEnv{store: store, handler: router.SetupChi()}
}

// testEnvelope mirrors APIResponse with the payload left raw.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Code != http.StatusNoContent && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: response is not an envelope: %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env testEnvelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, env testEnvelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if env.Success {
		t.Error("success = true, want false")
	}
	if env.Error == nil {
		t.Fatal("error is nil")
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}
