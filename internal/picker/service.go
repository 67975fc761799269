// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package picker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wheretoeat/internal/logging"
	"github.com/tomtom215/wheretoeat/internal/metrics"
	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/session"
)

var (
	// ErrCandidateNotFound is returned when a candidate ID is not in the session pool.
	ErrCandidateNotFound = errors.New("candidate not in session")

	// ErrNearbyDisabled is returned when nearby places are requested but no
	// scanner is configured.
	ErrNearbyDisabled = errors.New("nearby search is disabled")
)

// DefaultSessionTTL is used when Options.SessionTTL is not set.
const DefaultSessionTTL = 30 * time.Minute

// Repository is the persistence the picker needs.
type Repository interface {
	ListRestaurants(ctx context.Context) ([]recommend.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*recommend.Restaurant, error)
	ListVisits(ctx context.Context, since *time.Time) ([]recommend.Visit, error)
	RecordVisit(ctx context.Context, restaurantID string, at time.Time) (*recommend.Visit, error)
	SaveNearbyCandidate(ctx context.Context, c recommend.Candidate) (*recommend.Restaurant, bool, error)
}

// Scanner finds nearby candidates around a resolved position. Location errors
// from at are returned unmodified.
type Scanner interface {
	ScanAround(ctx context.Context, at nearby.Positioner, radiusMiles float64) ([]recommend.Candidate, nearby.Coordinate, error)
}

// Locator resolves the current position.
type Locator interface {
	Locate(ctx context.Context) (nearby.Coordinate, error)
}

// Options configures a Service. Scanner and Locator may be nil when nearby
// search is disabled.
type Options struct {
	Scanner    Scanner
	Locator    Locator
	SessionTTL time.Duration

	// Seed fixes the random source for reproducible picks. Zero seeds from
	// the clock.
	Seed int64
}

// Service runs pick sessions: it builds the candidate pool, asks the engine
// for picks and keeps the session state between veto, spin and choose.
type Service struct {
	repo     Repository
	sessions session.Store
	engine   *recommend.Engine
	scanner  Scanner
	locator  Locator
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewService creates a picker service.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewService(repo Repository, sessions session.Store, engine *recommend.Engine, opts Options, logger zerolog.Logger) *Service {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		repo:     repo,
		sessions: sessions,
		engine:   engine,
		scanner:  opts.Scanner,
		locator:  opts.Locator,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With().Str("component", "picker").Logger(),
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // picks need no cryptographic randomness
	}
}

// NearbyEnabled reports whether a scanner is configured.
func (s *Service) NearbyEnabled() bool {
	return s.scanner != nil
}

// requestLogger adds request and session IDs to the service logger.
func (s *Service) requestLogger(ctx context.Context, sessionID string) zerolog.Logger {
	l := logging.CtxWith(logging.ContextWithLogger(ctx, s.logger))
	if sessionID != "" {
		l = l.Str("session_id", sessionID)
	}
	return l.Logger()
}

// Pick starts a new session: it loads saved restaurants and recent visits,
// optionally scans for nearby places, and stores the first round of picks.
//
// A failed nearby scan falls back to saved restaurants only, recording the
// reason in Session.NearbyError, unless the request asked for nearby places
// only; then the scan error is returned.
//
//nolint:gocritic // hugeParam: request is copied into the session
func (s *Service) Pick(ctx context.Context, req session.Request) (sess *session.Session, err error) {
	defer func() { metrics.RecordPickerOperation("pick", err) }()

	req = normalizeRequest(req)
	now := s.now()
	logger := s.requestLogger(ctx, "")

	saved, err := s.repo.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}
	history, err := s.loadHistory(ctx, now)
	if err != nil {
		return nil, err
	}

	var nearbyCandidates []recommend.Candidate
	var nearbyErr error
	includeNearby := req.IncludeNearby
	if includeNearby {
		radius := 0.0
		if req.RadiusMiles != nil {
			radius = *req.RadiusMiles
		}
		nearbyCandidates, _, nearbyErr = s.ScanNearby(ctx, req.Latitude, req.Longitude, radius)
		if nearbyErr != nil {
			if req.OnlyNearby {
				return nil, nearbyErr
			}
			logger.Warn().Err(nearbyErr).Msg("Nearby scan failed, picking from saved restaurants")
			includeNearby = false
		}
	}

	pool := recommend.BuildPool(saved, nearbyCandidates, includeNearby, req.OnlyNearby)
	sess = session.New(req, pool, s.ttl, now)
	if nearbyErr != nil {
		sess.NearbyError = userMessage(nearbyErr)
	}
	sess.Picks = s.topK(sess, history, now)

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	logger.Info().
		Str("session_id", sess.ID).
		Str("mode", sess.Request.Mode.String()).
		Int("pool", len(pool)).
		Int("picks", len(sess.Picks)).
		Msg("Picks served")

	return sess, nil
}

// Get returns a stored session.
func (s *Service) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Veto excludes a candidate from the session and picks again from the
// remaining pool.
func (s *Service) Veto(ctx context.Context, sessionID, candidateID string) (sess *session.Session, err error) {
	defer func() { metrics.RecordPickerOperation("veto", err) }()

	sess, err = s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := sess.FindCandidate(candidateID); !ok {
		return nil, ErrCandidateNotFound
	}
	if !sess.IsVetoed(candidateID) {
		sess.Vetoed = append(sess.Vetoed, candidateID)
	}
	return s.repick(ctx, sess)
}

// SpinAgain draws a fresh set of picks from the session pool, still
// honoring earlier vetoes.
func (s *Service) SpinAgain(ctx context.Context, sessionID string) (sess *session.Session, err error) {
	defer func() { metrics.RecordPickerOperation("spin", err) }()

	sess, err = s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.repick(ctx, sess)
}

func (s *Service) repick(ctx context.Context, sess *session.Session) (*session.Session, error) {
	now := s.now()
	history, err := s.loadHistory(ctx, now)
	if err != nil {
		return nil, err
	}

	sess.Picks = s.topK(sess, history, now)
	sess.UpdatedAt = now
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	logger := s.requestLogger(ctx, sess.ID)
	logger.Debug().
		Int("vetoed", len(sess.Vetoed)).
		Int("picks", len(sess.Picks)).
		Msg("Repicked")
	return sess, nil
}

// ChooseResult is the outcome of choosing a candidate.
type ChooseResult struct {
	Visit      *recommend.Visit      `json:"visit"`
	Restaurant *recommend.Restaurant `json:"restaurant"`
}

// Choose records a visit to the chosen candidate and ends the session. A
// nearby candidate is saved as a restaurant first.
func (s *Service) Choose(ctx context.Context, sessionID, candidateID string) (result *ChooseResult, err error) {
	defer func() { metrics.RecordPickerOperation("choose", err) }()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	candidate, ok := sess.FindCandidate(candidateID)
	if !ok {
		return nil, ErrCandidateNotFound
	}

	if !candidate.IsSaved() {
		saved, _, err := s.saveCandidate(ctx, sess, candidate)
		if err != nil {
			return nil, err
		}
		candidate = saved
	}

	visit, err := s.repo.RecordVisit(ctx, *candidate.SavedRestaurantID, s.now())
	if err != nil {
		return nil, fmt.Errorf("record visit: %w", err)
	}
	restaurant, err := s.repo.GetRestaurant(ctx, visit.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("reload restaurant: %w", err)
	}

	logger := s.requestLogger(ctx, sess.ID)
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		logger.Warn().Err(err).Msg("Failed to delete finished session")
	}

	logger.Info().
		Str("restaurant_id", restaurant.ID).
		Str("restaurant", restaurant.Name).
		Msg("Visit recorded")

	return &ChooseResult{Visit: visit, Restaurant: restaurant}, nil
}

// SaveResult is the outcome of saving a nearby candidate.
type SaveResult struct {
	Session    *session.Session      `json:"session"`
	Restaurant *recommend.Restaurant `json:"restaurant"`
	Created    bool                  `json:"created"`
}

// SaveNearby saves a nearby candidate to the restaurant list and swaps it for
// the saved candidate in the session. A place whose name is already saved
// resolves to the existing restaurant.
func (s *Service) SaveNearby(ctx context.Context, sessionID, candidateID string) (result *SaveResult, err error) {
	defer func() { metrics.RecordPickerOperation("save_nearby", err) }()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	candidate, ok := sess.FindCandidate(candidateID)
	if !ok {
		return nil, ErrCandidateNotFound
	}

	if candidate.IsSaved() {
		restaurant, err := s.repo.GetRestaurant(ctx, *candidate.SavedRestaurantID)
		if err != nil {
			return nil, fmt.Errorf("load restaurant: %w", err)
		}
		return &SaveResult{Session: sess, Restaurant: restaurant}, nil
	}

	saved, created, err := s.saveCandidate(ctx, sess, candidate)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	restaurant, err := s.repo.GetRestaurant(ctx, *saved.SavedRestaurantID)
	if err != nil {
		return nil, fmt.Errorf("reload restaurant: %w", err)
	}
	return &SaveResult{Session: sess, Restaurant: restaurant, Created: created}, nil
}

// saveCandidate persists a nearby candidate and replaces it in sess. The
// session is not written back.
//
//nolint:gocritic // hugeParam: candidate is read-only
func (s *Service) saveCandidate(ctx context.Context, sess *session.Session, c recommend.Candidate) (recommend.Candidate, bool, error) {
	restaurant, created, err := s.repo.SaveNearbyCandidate(ctx, c)
	if err != nil {
		return recommend.Candidate{}, false, fmt.Errorf("save nearby candidate: %w", err)
	}
	saved := recommend.FromSaved(*restaurant)
	sess.ReplaceCandidate(c.ID, saved)

	logger := s.requestLogger(ctx, sess.ID)
	logger.Info().
		Str("restaurant_id", restaurant.ID).
		Bool("created", created).
		Msg("Nearby place saved")
	return saved, created, nil
}

// ScanNearby scans around the given coordinate, or around the located
// position when either coordinate is nil. radiusMiles <= 0 uses the
// scanner's default radius.
func (s *Service) ScanNearby(ctx context.Context, lat, lon *float64, radiusMiles float64) ([]recommend.Candidate, nearby.Coordinate, error) {
	if s.scanner == nil {
		return nil, nearby.Coordinate{}, ErrNearbyDisabled
	}

	var at nearby.Positioner
	switch {
	case lat != nil && lon != nil:
		at = nearby.FixedSource{At: nearby.Coordinate{Latitude: *lat, Longitude: *lon}}
	case s.locator == nil:
		return nil, nearby.Coordinate{}, nearby.ErrLocationUnavailable
	default:
		at = s.locator
	}
	return s.scanner.ScanAround(ctx, at, radiusMiles)
}

// topK runs the engine over the session pool minus vetoed candidates.
func (s *Service) topK(sess *session.Session, history []recommend.Visit, now time.Time) []recommend.Candidate {
	pool := recommend.WithoutIDs(sess.Pool, sess.Vetoed)
	req := recommend.Request{
		Cuisines:         sess.Request.Cuisines,
		MaxDistanceMiles: sess.Request.MaxDistanceMiles,
		Mode:             sess.Request.Mode,
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	picks := s.engine.TopK(req, history, pool, now, s.rng)
	if picks == nil {
		picks = []recommend.Candidate{}
	}
	return picks
}

// loadHistory loads the visits that can still affect a pick.
func (s *Service) loadHistory(ctx context.Context, now time.Time) ([]recommend.Visit, error) {
	cfg := s.engine.Config()
	window := cfg.RecentVisitWindow
	if cfg.CuisineFatigueWindow > window {
		window = cfg.CuisineFatigueWindow
	}
	since := now.Add(-window)

	history, err := s.repo.ListVisits(ctx, &since)
	if err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}
	return history, nil
}

//nolint:gocritic // hugeParam: request is copied by value
func normalizeRequest(req session.Request) session.Request {
	if req.OnlyNearby {
		req.IncludeNearby = true
	}
	mode, err := recommend.ParseNoveltyMode(string(req.Mode))
	if err != nil {
		mode = recommend.ModeBalanced
	}
	req.Mode = mode
	if req.Cuisines == nil {
		req.Cuisines = []string{}
	}
	return req
}

// userMessage returns text safe to show for a nearby failure.
func userMessage(err error) string {
	var le *nearby.LocationError
	switch {
	case errors.As(err, &le):
		return le.Message
	case errors.Is(err, ErrNearbyDisabled):
		return "Nearby search is turned off."
	case errors.Is(err, nearby.ErrSearchRejected):
		return "Nearby search is temporarily unavailable. Try again in a minute."
	default:
		return "Nearby search failed. Showing saved restaurants only."
	}
}
