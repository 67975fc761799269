// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package cache provides the in-memory structures behind nearby scans.

# ScanCache

ScanCache keeps nearby search results per bucketed request key for a fixed
TTL (600 seconds by default):

	key = (round(lat*1000), round(lon*1000), round(radiusMiles*10))

A lookup at exactly fetchedAt+TTL is a miss and evicts the entry; one second
earlier it is a hit. Empty result lists are cached like any other result, so
a quiet neighbourhood is not searched again until the TTL passes.

	c := cache.NewScanCache[recommend.Candidate](10 * time.Minute)
	if hits, ok := c.Lookup(lat, lon, 2, time.Now()); ok {
	    return hits
	}
	results := search(...)
	c.Store(lat, lon, 2, results, time.Now())

A supervised sweeper calls Sweep periodically to drop entries that were
never looked up again.

# PlaceIndex

PlaceIndex is a spatial hash grid over places loaded from a local places
file. Within returns the entries inside a radius ordered by distance.

# Thread Safety

Both types are safe for concurrent use. ScanCache serializes all access with
a mutex; concurrent stores to the same bucket are last-write-wins.
*/
package cache
