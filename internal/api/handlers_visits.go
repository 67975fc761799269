// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wheretoeat/internal/recommend"
)

// maxHistoryDays bounds the days query parameter.
const maxHistoryDays = 3650

// ListVisits returns visits, newest first. ?days=N limits them to the last N
// days; without it the full history is returned.
//
// GET /api/v1/visits
func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var since *time.Time
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxHistoryDays {
			rw.BadRequest("days must be an integer between 1 and " + strconv.Itoa(maxHistoryDays))
			return
		}
		cutoff := h.now().AddDate(0, 0, -days)
		since = &cutoff
	}

	visits, err := h.store.ListVisits(r.Context(), since)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	if visits == nil {
		visits = []recommend.Visit{}
	}
	rw.List(visits, len(visits))
}

// RateVisit sets or clears the rating of a visit. The restaurant's rating
// follows its most recent rated visit.
//
// PUT /api/v1/visits/{id}/rating
func (h *Handler) RateVisit(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RatingRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	visit, err := h.store.SetVisitRating(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(visit)
}
