// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package cache

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

var storedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBucketKey(t *testing.T) {
	tests := []struct {
		name string
		a, b [3]float64
		same bool
	}{
		{name: "gps jitter shares a bucket", a: [3]float64{37.77491, -122.41941, 2}, b: [3]float64{37.77512, -122.41899, 2.04}, same: true},
		{name: "different radius", a: [3]float64{37.7749, -122.4194, 2}, b: [3]float64{37.7749, -122.4194, 2.5}, same: false},
		{name: "moved a block", a: [3]float64{37.7749, -122.4194, 2}, b: [3]float64{37.7769, -122.4194, 2}, same: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := BucketKey(tt.a[0], tt.a[1], tt.a[2])
			kb := BucketKey(tt.b[0], tt.b[1], tt.b[2])
			if (ka == kb) != tt.same {
				t.Errorf("BucketKey %v vs %v: same=%v, want %v", ka, kb, ka == kb, tt.same)
			}
		})
	}

	if got := BucketKey(37.7749, -122.4194, 2); got != (ScanKey{Lat: 37775, Lon: -122419, Radius: 20}) {
		t.Errorf("BucketKey() = %+v", got)
	}
}

func TestScanCache_TTLBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantHit bool
	}{
		{name: "fresh", elapsed: 0, wantHit: true},
		{name: "599s is a hit", elapsed: 599 * time.Second, wantHit: true},
		{name: "just before ttl", elapsed: 600*time.Second - time.Nanosecond, wantHit: true},
		{name: "exactly 600s is expired", elapsed: 600 * time.Second, wantHit: false},
		{name: "long after", elapsed: time.Hour, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewScanCache[string](DefaultScanTTL)
			c.Store(40.0, -74.0, 2, []string{"Pho Corner", "Patty Lab"}, storedAt)

			got, ok := c.Lookup(40.0, -74.0, 2, storedAt.Add(tt.elapsed))
			if ok != tt.wantHit {
				t.Fatalf("Lookup() hit = %v, want %v", ok, tt.wantHit)
			}
			if tt.wantHit && !reflect.DeepEqual(got, []string{"Pho Corner", "Patty Lab"}) {
				t.Errorf("Lookup() = %v", got)
			}
			if !tt.wantHit && c.Len() != 0 {
				t.Errorf("expired lookup should evict, Len() = %d", c.Len())
			}
		})
	}
}

func TestScanCache_EmptyResultsAreHits(t *testing.T) {
	c := NewScanCache[string](time.Minute)
	c.Store(1, 1, 0.5, nil, storedAt)

	got, ok := c.Lookup(1, 1, 0.5, storedAt.Add(time.Second))
	if !ok {
		t.Fatal("expected a hit for a stored empty result")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected non-nil empty slice, got %#v", got)
	}
}

func TestScanCache_ReturnsCopies(t *testing.T) {
	c := NewScanCache[string](time.Minute)
	input := []string{"a", "b"}
	c.Store(1, 1, 1, input, storedAt)
	input[0] = "mutated"

	got, _ := c.Lookup(1, 1, 1, storedAt)
	got[1] = "mutated"

	again, _ := c.Lookup(1, 1, 1, storedAt)
	if !reflect.DeepEqual(again, []string{"a", "b"}) {
		t.Errorf("cache entry was aliased: %v", again)
	}
}

func TestScanCache_LastWriteWins(t *testing.T) {
	c := NewScanCache[string](time.Minute)
	c.Store(1, 1, 1, []string{"first"}, storedAt)
	c.Store(1.0001, 1.0001, 1.01, []string{"second"}, storedAt.Add(30*time.Second))

	got, ok := c.Lookup(1, 1, 1, storedAt.Add(80*time.Second))
	if !ok || !reflect.DeepEqual(got, []string{"second"}) {
		t.Errorf("Lookup() = %v, %v; want [second], true", got, ok)
	}
}

func TestScanCache_Sweep(t *testing.T) {
	c := NewScanCache[int](10 * time.Second)
	c.Store(1, 1, 1, []int{1}, storedAt)
	c.Store(2, 2, 1, []int{2}, storedAt.Add(5*time.Second))
	c.Store(3, 3, 1, []int{3}, storedAt.Add(9*time.Second))

	if removed := c.Sweep(storedAt.Add(15 * time.Second)); removed != 2 {
		t.Errorf("Sweep() removed %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	stats := c.Stats()
	if stats.Evictions != 2 || stats.Entries != 1 || !stats.LastCleanup.Equal(storedAt.Add(15*time.Second)) {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestScanCache_Stats(t *testing.T) {
	c := NewScanCache[int](time.Minute)
	c.Lookup(0, 0, 1, storedAt)
	c.Store(0, 0, 1, []int{7}, storedAt)
	c.Lookup(0, 0, 1, storedAt)
	c.Lookup(0, 0, 1, storedAt.Add(time.Minute))

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Evictions != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if rate := stats.HitRate(); rate < 33.3 || rate > 33.4 {
		t.Errorf("HitRate() = %v", rate)
	}
}

func TestScanCache_DefaultTTL(t *testing.T) {
	if got := NewScanCache[int](0).TTL(); got != DefaultScanTTL {
		t.Errorf("TTL() = %v, want %v", got, DefaultScanTTL)
	}
}

func TestScanCache_Concurrent(t *testing.T) {
	c := NewScanCache[int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Store(float64(j%5), 0, 1, []int{n}, storedAt)
				c.Lookup(float64(j%5), 0, 1, storedAt)
				if j%50 == 0 {
					c.Sweep(storedAt)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}
