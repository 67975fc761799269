// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wheretoeat/internal/recommend"
	"github.com/tomtom215/wheretoeat/internal/session"
	"github.com/tomtom215/wheretoeat/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// PickRequest starts a pick session.
type PickRequest struct {
	Cuisines         []string `json:"cuisines" validate:"omitempty,max=20,dive,required,max=64"`
	MaxDistanceMiles *float64 `json:"max_distance_miles" validate:"omitempty,gt=0,lte=500"`
	Mode             string   `json:"mode" validate:"novelty_mode"`
	IncludeNearby    bool     `json:"include_nearby"`
	OnlyNearby       bool     `json:"only_nearby"`
	RadiusMiles      *float64 `json:"radius_miles" validate:"omitempty,gt=0,lte=25"`
	Latitude         *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude        *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
}

// toSessionRequest converts a validated request. Mode is already known to
// parse.
func (p *PickRequest) toSessionRequest() session.Request {
	mode, _ := recommend.ParseNoveltyMode(p.Mode) //nolint:errcheck // validated by novelty_mode
	return session.Request{
		Cuisines:         p.Cuisines,
		MaxDistanceMiles: p.MaxDistanceMiles,
		Mode:             mode,
		IncludeNearby:    p.IncludeNearby,
		OnlyNearby:       p.OnlyNearby,
		RadiusMiles:      p.RadiusMiles,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
	}
}

// CandidateRequest names a candidate within a pick session.
type CandidateRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,max=512"`
}

// RestaurantRequest creates or replaces a restaurant's editable fields.
type RestaurantRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Cuisines      []string `json:"cuisines" validate:"omitempty,max=20,dive,required,max=64"`
	PriceLevel    int      `json:"price_level" validate:"omitempty,min=1,max=4"`
	DistanceMiles *float64 `json:"distance_miles" validate:"omitempty,gte=0,lte=500"`
	Latitude      *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude     *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	IsFavorite    bool     `json:"is_favorite"`
	IsNew         bool     `json:"is_new"`
}

// apply copies the request onto r. Price level 0 keeps the default tier.
func (req *RestaurantRequest) apply(r *recommend.Restaurant) {
	r.Name = strings.TrimSpace(req.Name)
	r.Cuisines = trimAll(req.Cuisines)
	r.PriceLevel = req.PriceLevel
	if r.PriceLevel == 0 {
		r.PriceLevel = defaultPriceLevel
	}
	r.DistanceMiles = req.DistanceMiles
	r.Latitude = req.Latitude
	r.Longitude = req.Longitude
	r.IsFavorite = req.IsFavorite
	r.IsNew = req.IsNew
}

// defaultPriceLevel is the tier assumed when none is given.
const defaultPriceLevel = 2

// RatingRequest rates a visit. A null rating clears it.
type RatingRequest struct {
	Rating *int `json:"rating" validate:"omitempty,rating"`
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// the error envelope has been written and false is returned. An empty body
// decodes as the zero value.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(rw.w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
			return false
		}
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// queryFloat parses an optional float query parameter.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}
