// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package nearby discovers restaurants around the user.

# Location

Locator drives a LocationSource through permission and fix:

	services off          -> ErrLocationServicesDisabled
	denied / restricted   -> ErrPermissionDenied
	not determined        -> request, wait up to 12s  -> ErrTimedOut on expiry
	authorized            -> last known fix, else request one within 12s
	fix failed            -> ErrPermissionDenied if now denied, else ErrLocationUnavailable

Both windows are context timeouts derived from the caller's context and are
cancelled as soon as an answer arrives.

# Search

PlaceSearcher implementations:
  - OverpassSearcher: OpenStreetMap Overpass API (amenity=restaurant)
  - IndexSearcher: a YAML places file indexed in a cache.PlaceIndex
  - ResilientSearcher: circuit breaker and rate limit around either

# Scanner

Scanner.Scan checks the bucketed scan cache, searches on a miss, converts
hits into recommend.Candidate values (distance in miles, identity from name
and rounded coordinates), dedupes by identity and stores the result.
*/
package nearby
