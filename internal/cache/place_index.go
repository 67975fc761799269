// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package cache

import (
	"math"
	"sort"
	"sync"
)

const (
	earthRadiusKm = 6371.0
	kmPerDegree   = 111.0
)

// PlaceIndex divides geographic space into cells for fast radius queries.
// A query only visits the cells overlapping the search circle instead of
// every stored place.
//
// Time Complexity:
//   - Insert: O(1)
//   - Within: O(k) where k = entries in the visited cells
type PlaceIndex[T any] struct {
	mu       sync.RWMutex
	cells    map[cellKey][]*IndexEntry[T]
	cellSize float64 // degrees
	entries  map[string]*IndexEntry[T]
}

type cellKey struct {
	X, Y int
}

// IndexEntry is a stored place.
type IndexEntry[T any] struct {
	ID    string
	Lat   float64
	Lon   float64
	Value T
	cell  cellKey
}

// Match is a query result with its distance from the query point.
type Match[T any] struct {
	IndexEntry[T]
	DistanceKm float64
}

// NewPlaceIndex creates an index with cells of roughly cellSizeKm.
// Non-positive sizes default to 1 km, which suits city-scale searches.
func NewPlaceIndex[T any](cellSizeKm float64) *PlaceIndex[T] {
	if cellSizeKm <= 0 {
		cellSizeKm = 1
	}
	return &PlaceIndex[T]{
		cells:    make(map[cellKey][]*IndexEntry[T]),
		cellSize: cellSizeKm / kmPerDegree,
		entries:  make(map[string]*IndexEntry[T]),
	}
}

func (p *PlaceIndex[T]) keyFor(lat, lon float64) cellKey {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return cellKey{
		X: int(math.Floor(lon / p.cellSize)),
		Y: int(math.Floor(lat / p.cellSize)),
	}
}

// Insert adds or replaces the entry with the given id.
func (p *PlaceIndex[T]) Insert(id string, lat, lon float64, value T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.entries[id]; ok {
		p.removeFromCellUnlocked(existing)
	}

	entry := &IndexEntry[T]{ID: id, Lat: lat, Lon: lon, Value: value, cell: p.keyFor(lat, lon)}
	p.cells[entry.cell] = append(p.cells[entry.cell], entry)
	p.entries[id] = entry
}

// removeFromCellUnlocked removes an entry from its cell (caller must hold lock).
func (p *PlaceIndex[T]) removeFromCellUnlocked(entry *IndexEntry[T]) {
	cell := p.cells[entry.cell]
	for i, e := range cell {
		if e.ID == entry.ID {
			cell[i] = cell[len(cell)-1]
			cell = cell[:len(cell)-1]
			break
		}
	}
	if len(cell) == 0 {
		delete(p.cells, entry.cell)
		return
	}
	p.cells[entry.cell] = cell
}

// Within returns every entry within radiusKm of (lat, lon), nearest first.
func (p *PlaceIndex[T]) Within(lat, lon, radiusKm float64) []Match[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()

	spanY := int(math.Ceil(radiusKm/kmPerDegree/p.cellSize)) + 1
	// Longitude degrees shrink toward the poles.
	lonScale := math.Cos(lat * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01
	}
	spanX := int(math.Ceil(radiusKm/(kmPerDegree*lonScale)/p.cellSize)) + 1

	center := p.keyFor(lat, lon)
	var matches []Match[T]

	for dx := -spanX; dx <= spanX; dx++ {
		for dy := -spanY; dy <= spanY; dy++ {
			for _, entry := range p.cells[cellKey{X: center.X + dx, Y: center.Y + dy}] {
				dist := DistanceKm(lat, lon, entry.Lat, entry.Lon)
				if dist <= radiusKm {
					matches = append(matches, Match[T]{IndexEntry: *entry, DistanceKm: dist})
				}
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].ID < matches[j].ID
	})
	return matches
}

// Len returns the number of entries.
func (p *PlaceIndex[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// DistanceKm returns the great-circle distance between two points in km
// using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
