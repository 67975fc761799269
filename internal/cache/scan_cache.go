// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package cache

import (
	"math"
	"sync"
	"time"
)

// DefaultScanTTL is how long a nearby scan result stays fresh.
const DefaultScanTTL = 600 * time.Second

// ScanKey identifies a bucket of nearby scans. Latitude and longitude are
// rounded to 3 decimals and the radius to 1 decimal, so GPS jitter between
// successive scans lands in the same bucket.
type ScanKey struct {
	Lat    int64
	Lon    int64
	Radius int64
}

// BucketKey returns the bucket for a scan centered at (lat, lon).
func BucketKey(lat, lon, radiusMiles float64) ScanKey {
	return ScanKey{
		Lat:    int64(math.Round(lat * 1000)),
		Lon:    int64(math.Round(lon * 1000)),
		Radius: int64(math.Round(radiusMiles * 10)),
	}
}

type scanEntry[T any] struct {
	fetchedAt time.Time
	results   []T
}

// ScanStats is a snapshot of cache activity.
type ScanStats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Entries     int
	LastCleanup time.Time
}

// HitRate returns hits as a percentage of lookups.
func (s ScanStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// ScanCache holds nearby scan results per bucket for a fixed TTL.
//
// Entries are removed only by age: a lookup of an expired entry evicts it and
// Sweep drops every expired entry. An entry stored at t is expired for any
// now >= t+TTL. Concurrent stores to one bucket are last-write-wins.
//
// The clock is always passed in, so behaviour at the TTL boundary is exact
// and testable.
type ScanCache[T any] struct {
	mu      sync.Mutex
	entries map[ScanKey]scanEntry[T]
	ttl     time.Duration
	stats   ScanStats
}

// NewScanCache creates a cache. A non-positive ttl uses DefaultScanTTL.
func NewScanCache[T any](ttl time.Duration) *ScanCache[T] {
	if ttl <= 0 {
		ttl = DefaultScanTTL
	}
	return &ScanCache[T]{
		entries: make(map[ScanKey]scanEntry[T]),
		ttl:     ttl,
	}
}

// TTL returns the configured time-to-live.
func (c *ScanCache[T]) TTL() time.Duration {
	return c.ttl
}

// Lookup returns the cached results for the bucket containing the scan.
// A stored empty result is a hit and returns a non-nil empty slice.
func (c *ScanCache[T]) Lookup(lat, lon, radiusMiles float64, now time.Time) ([]T, bool) {
	key := BucketKey(lat, lon, radiusMiles)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	if c.expired(entry, now) {
		delete(c.entries, key)
		c.stats.Misses++
		c.stats.Evictions++
		return nil, false
	}

	c.stats.Hits++
	return append(make([]T, 0, len(entry.results)), entry.results...), true
}

// Store records results for the bucket containing the scan, replacing any
// previous entry.
func (c *ScanCache[T]) Store(lat, lon, radiusMiles float64, results []T, now time.Time) {
	key := BucketKey(lat, lon, radiusMiles)
	copied := append(make([]T, 0, len(results)), results...)

	c.mu.Lock()
	c.entries[key] = scanEntry[T]{fetchedAt: now, results: copied}
	c.mu.Unlock()
}

// Sweep removes every expired entry and returns how many were removed.
func (c *ScanCache[T]) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, key)
			removed++
		}
	}

	c.stats.Evictions += int64(removed)
	c.stats.LastCleanup = now
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *ScanCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *ScanCache[T]) Stats() ScanStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// expired reports whether entry has reached its TTL (caller must hold lock).
func (c *ScanCache[T]) expired(entry scanEntry[T], now time.Time) bool {
	return now.Sub(entry.fetchedAt) >= c.ttl
}
