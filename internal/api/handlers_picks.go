// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wheretoeat/internal/logging"
)

// sessionID returns the session path parameter and tags the request logging
// context with it.
func sessionID(r *http.Request) (string, *http.Request) {
	id := chi.URLParam(r, "sessionID")
	return id, r.WithContext(logging.ContextWithSessionID(r.Context(), id))
}

// CreatePick starts a pick session.
//
// POST /api/v1/picks
func (h *Handler) CreatePick(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PickRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	sess, err := h.picker.Pick(r.Context(), req.toSessionRequest())
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Created(sess)
}

// GetPick returns a pick session.
//
// GET /api/v1/picks/{sessionID}
func (h *Handler) GetPick(w http.ResponseWriter, r *http.Request) {
	id, r := sessionID(r)
	rw := NewResponseWriter(w, r)

	sess, err := h.picker.Get(r.Context(), id)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Success(sess)
}

// VetoPick removes a candidate from the session and picks again.
//
// POST /api/v1/picks/{sessionID}/veto
func (h *Handler) VetoPick(w http.ResponseWriter, r *http.Request) {
	id, r := sessionID(r)
	rw := NewResponseWriter(w, r)

	var req CandidateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	sess, err := h.picker.Veto(r.Context(), id, req.CandidateID)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Success(sess)
}

// SpinPick draws a new set of picks from the same session.
//
// POST /api/v1/picks/{sessionID}/spin
func (h *Handler) SpinPick(w http.ResponseWriter, r *http.Request) {
	id, r := sessionID(r)
	rw := NewResponseWriter(w, r)

	sess, err := h.picker.SpinAgain(r.Context(), id)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Success(sess)
}

// ChoosePick records a visit to the chosen candidate and ends the session.
//
// POST /api/v1/picks/{sessionID}/choose
func (h *Handler) ChoosePick(w http.ResponseWriter, r *http.Request) {
	id, r := sessionID(r)
	rw := NewResponseWriter(w, r)

	var req CandidateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	result, err := h.picker.Choose(r.Context(), id, req.CandidateID)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Created(result)
}

// SavePickCandidate saves a nearby candidate to the restaurant list.
// Responds 201 when a restaurant was created, 200 when it already existed.
//
// POST /api/v1/picks/{sessionID}/save
func (h *Handler) SavePickCandidate(w http.ResponseWriter, r *http.Request) {
	id, r := sessionID(r)
	rw := NewResponseWriter(w, r)

	var req CandidateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	result, err := h.picker.SaveNearby(r.Context(), id, req.CandidateID)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	if result.Created {
		rw.Created(result)
		return
	}
	rw.Success(result)
}
