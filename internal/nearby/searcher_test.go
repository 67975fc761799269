// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"errors"
	"sync"
)

// stubSearcher returns canned places and counts calls.
type stubSearcher struct {
	mu          sync.Mutex
	places      []Place
	err         error
	calls       int
	lastRadiusM float64
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(ctx context.Context, _ Coordinate, radiusMeters float64) ([]Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastRadiusM = radiusMeters
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return append([]Place(nil), s.places...), nil
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var errUpstream = errors.New("upstream exploded")
