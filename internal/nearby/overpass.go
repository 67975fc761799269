// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package nearby

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultOverpassURL is the public OpenStreetMap Overpass API endpoint.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// OverpassSearcher finds restaurants through the OpenStreetMap Overpass API.
type OverpassSearcher struct {
	client    *http.Client
	endpoint  string
	userAgent string
}

// overpassResponse is the subset of the Overpass JSON output we read.
// Ways carry their position in "center" when queried with "out center".
type overpassResponse struct {
	Elements []struct {
		Type   string            `json:"type"`
		ID     int64             `json:"id"`
		Lat    *float64          `json:"lat"`
		Lon    *float64          `json:"lon"`
		Center *overpassCenter   `json:"center"`
		Tags   map[string]string `json:"tags"`
	} `json:"elements"`
	Remark string `json:"remark"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewOverpassSearcher creates a searcher. An empty endpoint uses
// DefaultOverpassURL; a non-positive timeout uses 15 seconds.
func NewOverpassSearcher(endpoint, userAgent string, timeout time.Duration) *OverpassSearcher {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = "wheretoeat"
	}
	return &OverpassSearcher{
		client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		userAgent: userAgent,
	}
}

// Name returns the provider name.
func (s *OverpassSearcher) Name() string {
	return "overpass"
}

// Search queries restaurant nodes and ways around center.
func (s *OverpassSearcher) Search(ctx context.Context, center Coordinate, radiusMeters float64) ([]Place, error) {
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}

	form := url.Values{}
	form.Set("data", buildOverpassQuery(center, radiusMeters))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Overpass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:errcheck // best-effort error context
		return nil, fmt.Errorf("Overpass returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
	}

	return convertOverpassResponse(&result), nil
}

func buildOverpassQuery(center Coordinate, radiusMeters float64) string {
	around := fmt.Sprintf("(around:%.0f,%.6f,%.6f)", radiusMeters, center.Latitude, center.Longitude)
	return "[out:json][timeout:25];(" +
		`node["amenity"="restaurant"]` + around + ";" +
		`way["amenity"="restaurant"]` + around + ";" +
		");out center;"
}

func convertOverpassResponse(result *overpassResponse) []Place {
	places := make([]Place, 0, len(result.Elements))
	for i := range result.Elements {
		el := &result.Elements[i]

		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}

		var lat, lon float64
		switch {
		case el.Lat != nil && el.Lon != nil:
			lat, lon = *el.Lat, *el.Lon
		case el.Center != nil:
			lat, lon = el.Center.Lat, el.Center.Lon
		default:
			continue
		}

		places = append(places, Place{Name: name, Latitude: lat, Longitude: lon})
	}
	return places
}
