// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"net/http"

	"github.com/tomtom215/wheretoeat/internal/nearby"
	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/validation"
)

// NearbyQuery holds the query parameters of a nearby scan.
type NearbyQuery struct {
	Latitude    *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	RadiusMiles *float64 `json:"radius_miles" validate:"omitempty,gt=0,lte=25"`
}

// NearbyResult is the body of a successful scan.
type NearbyResult struct {
	Center      nearby.Coordinate     `json:"center"`
	RadiusMiles *float64              `json:"radius_miles,omitempty"`
	Places      []recommend.Candidate `json:"places"`
}

// Nearby scans for restaurants around the given coordinate, or around the
// device location when none is given.
//
// GET /api/v1/nearby?latitude=&longitude=&radius_miles=
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var q NearbyQuery
	params := []struct {
		name string
		dst  **float64
	}{
		{"latitude", &q.Latitude},
		{"longitude", &q.Longitude},
		{"radius_miles", &q.RadiusMiles},
	}
	for _, p := range params {
		v, err := queryFloat(r, p.name)
		if err != nil {
			rw.BadRequest(err.Error())
			return
		}
		*p.dst = v
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	var radius float64
	if q.RadiusMiles != nil {
		radius = *q.RadiusMiles
	}

	places, center, err := h.picker.ScanNearby(r.Context(), q.Latitude, q.Longitude, radius)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	if places == nil {
		places = []recommend.Candidate{}
	}

	rw.List(NearbyResult{Center: center, RadiusMiles: q.RadiusMiles, Places: places}, len(places))
}
