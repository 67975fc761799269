// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wheretoeat/internal/logging"
	"github.com/tomtom215/wheretoeat/internal/recommend"
)

// ListRestaurants returns every saved restaurant.
//
// GET /api/v1/restaurants
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	restaurants, err := h.store.ListRestaurants(r.Context())
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	if restaurants == nil {
		restaurants = []recommend.Restaurant{}
	}
	rw.List(restaurants, len(restaurants))
}

// GetRestaurant returns one restaurant.
//
// GET /api/v1/restaurants/{id}
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	restaurant, err := h.store.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(restaurant)
}

// CreateRestaurant saves a new restaurant.
//
// POST /api/v1/restaurants
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RestaurantRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	restaurant := &recommend.Restaurant{CreatedAt: h.now()}
	req.apply(restaurant)

	if err := h.store.CreateRestaurant(r.Context(), restaurant); err != nil {
		respondStoreError(rw, err)
		return
	}

	logging.CtxInfo(r.Context()).
		Str("restaurant_id", restaurant.ID).
		Str("restaurant", restaurant.Name).
		Msg("Restaurant created")
	rw.Created(restaurant)
}

// UpdateRestaurant replaces a restaurant's editable fields. Visit history,
// rating and creation time are kept.
//
// PUT /api/v1/restaurants/{id}
func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RestaurantRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	restaurant, err := h.store.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	req.apply(restaurant)

	if err := h.store.UpdateRestaurant(r.Context(), restaurant); err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(restaurant)
}

// DeleteRestaurant removes a restaurant and its visits.
//
// DELETE /api/v1/restaurants/{id}
func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	if err := h.store.DeleteRestaurant(r.Context(), id); err != nil {
		respondStoreError(rw, err)
		return
	}

	logging.CtxInfo(r.Context()).Str("restaurant_id", id).Msg("Restaurant deleted")
	rw.NoContent()
}
