// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/wheretoeat/internal/recommend"
)

var (
	// ErrSessionNotFound is returned when no session has the given ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned by Get for a session past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

// Request holds the parameters a session was created with.
type Request struct {
	Cuisines         []string              `json:"cuisines"`
	MaxDistanceMiles *float64              `json:"max_distance_miles,omitempty"`
	Mode             recommend.NoveltyMode `json:"mode"`
	IncludeNearby    bool                  `json:"include_nearby"`
	OnlyNearby       bool                  `json:"only_nearby"`
	RadiusMiles      *float64              `json:"radius_miles,omitempty"`
	Latitude         *float64              `json:"latitude,omitempty"`
	Longitude        *float64              `json:"longitude,omitempty"`
}

// Session is one round of picking: the pool snapshot taken when it was
// created, the candidates vetoed so far and the current picks.
type Session struct {
	ID      string                `json:"id"`
	Request Request               `json:"request"`
	Pool    []recommend.Candidate `json:"pool"`
	Vetoed  []string              `json:"vetoed"`
	Picks   []recommend.Candidate `json:"picks"`

	// NearbyError is the user-facing reason nearby places were left out of
	// the pool, empty when the scan succeeded or was not requested.
	NearbyError string `json:"nearby_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a session with a fresh ID that expires ttl after now.
//
//nolint:gocritic // hugeParam: request is copied into the session
func New(req Request, pool []recommend.Candidate, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Request:   req,
		Pool:      pool,
		Vetoed:    []string{},
		Picks:     []recommend.Candidate{},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsVetoed reports whether candidateID is on the veto list.
func (s *Session) IsVetoed(candidateID string) bool {
	for _, id := range s.Vetoed {
		if id == candidateID {
			return true
		}
	}
	return false
}

// FindCandidate returns the pool candidate with the given identity.
func (s *Session) FindCandidate(candidateID string) (recommend.Candidate, bool) {
	for i := range s.Pool {
		if s.Pool[i].ID == candidateID {
			return s.Pool[i], true
		}
	}
	return recommend.Candidate{}, false
}

// ReplaceCandidate swaps the candidate oldID for c in the pool and picks,
// adding c to the pool when oldID is not there. oldID is dropped from the
// veto list.
//
//nolint:gocritic // hugeParam: candidate stored by value
func (s *Session) ReplaceCandidate(oldID string, c recommend.Candidate) {
	inPool := false
	for i := range s.Pool {
		if s.Pool[i].ID == oldID {
			s.Pool[i] = c
			inPool = true
		}
	}
	if !inPool {
		s.Pool = append(s.Pool, c)
	}
	for i := range s.Picks {
		if s.Picks[i].ID == oldID {
			s.Picks[i] = c
		}
	}
	vetoed := s.Vetoed[:0]
	for _, id := range s.Vetoed {
		if id != oldID {
			vetoed = append(vetoed, id)
		}
	}
	s.Vetoed = vetoed
	s.Pool = recommend.DedupeByID(s.Pool)
	s.Picks = recommend.DedupeByID(s.Picks)
}

// Clone returns a copy that shares no slices with s. Candidates are values
// whose pointer fields are never mutated in place, so they are not deep-copied.
func (s *Session) Clone() *Session {
	c := *s
	c.Request.Cuisines = append([]string(nil), s.Request.Cuisines...)
	c.Pool = append([]recommend.Candidate(nil), s.Pool...)
	c.Vetoed = append([]string(nil), s.Vetoed...)
	c.Picks = append([]recommend.Candidate(nil), s.Picks...)
	return &c
}

// Store persists picker sessions.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if not found and ErrSessionExpired if the
	// session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Update replaces a stored session.
	// Returns ErrSessionNotFound if it does not exist or has expired.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes expired sessions and returns how many were removed.
	CleanupExpired(ctx context.Context) (int, error)
}
