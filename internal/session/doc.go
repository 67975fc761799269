// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

// Package session stores picker sessions.
//
// A session snapshots the candidate pool of one pick request so that veto,
// spin again and choose operate on the same candidates the user saw. Three
// backends implement Store:
//
//   - MemoryStore: process memory, the default.
//   - BadgerStore: BadgerDB under session.path, keys "picker_session:<id>"
//     with a Badger TTL matching the session expiry.
//   - RedisStore: Redis keys with a TTL; expiry is left to Redis.
//
// StoreFactory picks the backend from session.store and owns its connection.
// The supervisor runs CleanupExpired every session.cleanup_interval.
package session
