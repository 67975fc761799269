// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package session

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/wheretoeat/internal/config"
	"github.com/tomtom215/wheretoeat/internal/recommend"
)

func TestNew(t *testing.T) {
	t.Parallel()

	s := New(Request{Mode: recommend.ModeSafe}, testPool(), 30*time.Minute, testNow)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a UUID", s.ID)
	}
	if !s.ExpiresAt.Equal(testNow.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt = %v", s.ExpiresAt)
	}
	if s.Vetoed == nil || s.Picks == nil {
		t.Error("Vetoed and Picks should be empty, not nil, so they encode as []")
	}
}

func TestSession_IsExpired(t *testing.T) {
	t.Parallel()

	s := New(Request{}, nil, time.Minute, testNow)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"created", testNow, false},
		{"just before", testNow.Add(time.Minute - time.Nanosecond), false},
		{"at expiry", testNow.Add(time.Minute), true},
		{"after", testNow.Add(time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := s.IsExpired(tt.at); got != tt.want {
				t.Errorf("IsExpired(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestSession_ReplaceCandidate(t *testing.T) {
	t.Parallel()

	s := newTestSession(testNow)
	nearby := s.Pool[1]
	s.Picks = []recommend.Candidate{s.Pool[0], nearby}
	s.Vetoed = []string{nearby.ID}

	saved := recommend.FromSaved(recommend.Restaurant{ID: "b2", Name: "Corner Deli", PriceLevel: 2})
	s.ReplaceCandidate(nearby.ID, saved)

	if _, ok := s.FindCandidate(nearby.ID); ok {
		t.Error("old candidate still in pool")
	}
	if got, ok := s.FindCandidate(saved.ID); !ok || !got.IsSaved() {
		t.Errorf("saved candidate missing from pool: %+v", got)
	}
	if s.Picks[1].ID != saved.ID {
		t.Errorf("Picks[1] = %q, want %q", s.Picks[1].ID, saved.ID)
	}
	if len(s.Vetoed) != 0 {
		t.Errorf("Vetoed = %v, want the replaced id dropped", s.Vetoed)
	}
}

func TestSession_ReplaceCandidateAppendsWhenMissing(t *testing.T) {
	t.Parallel()

	s := newTestSession(testNow)
	saved := recommend.FromSaved(recommend.Restaurant{ID: "c3", Name: "Taco Stand", PriceLevel: 1})
	s.ReplaceCandidate("gone|0.00000|0.00000", saved)

	if len(s.Pool) != 3 || s.Pool[2].ID != saved.ID {
		t.Errorf("Pool = %+v", s.Pool)
	}
}

func TestSession_ReplaceCandidateCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	s := newTestSession(testNow)
	// Replacing the nearby entry with the already-present saved one must not
	// leave the saved candidate in the pool twice.
	s.ReplaceCandidate(s.Pool[1].ID, s.Pool[0])

	if len(s.Pool) != 1 {
		t.Errorf("len(Pool) = %d, want 1", len(s.Pool))
	}
}

func TestSession_Clone(t *testing.T) {
	t.Parallel()

	s := newTestSession(testNow)
	c := s.Clone()
	c.Request.Cuisines[0] = "thai"
	c.Vetoed = append(c.Vetoed, "x")
	c.Pool[0].Name = "other"

	if s.Request.Cuisines[0] != "chinese" {
		t.Error("clone shares cuisines")
	}
	if len(s.Vetoed) != 0 {
		t.Error("clone shares vetoed")
	}
	if s.Pool[0].Name != "Golden Wok" {
		t.Error("clone shares pool")
	}
}

func TestNewStoreFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.SessionConfig
		want    StoreType
		wantErr bool
	}{
		{"memory", config.SessionConfig{Store: "memory"}, StoreMemory, false},
		{"empty defaults to memory", config.SessionConfig{}, StoreMemory, false},
		{"badger", config.SessionConfig{Store: "badger", Path: t.TempDir()}, StoreBadger, false},
		{"unknown", config.SessionConfig{Store: "etcd"}, "", true},
		{"unreachable redis", config.SessionConfig{Store: "redis", RedisURL: "redis://127.0.0.1:1/0"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := NewStoreFactory(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					_ = f.Close()
					t.Fatal("NewStoreFactory() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStoreFactory() error = %v", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
			}()

			if f.Type() != tt.want {
				t.Errorf("Type() = %q, want %q", f.Type(), tt.want)
			}
			if f.Store() == nil {
				t.Error("Store() = nil")
			}
		})
	}
}
