// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

// Package picker runs pick sessions on top of the recommendation engine.
//
// Pick snapshots the candidate pool (saved restaurants plus, on request,
// nearby places) into a session and returns the first picks. Veto and
// SpinAgain redraw from that snapshot, so a vetoed candidate never comes
// back within the session. Choose records a visit and ends the session;
// SaveNearby turns a nearby place into a saved restaurant in place.
//
// The service owns the only random source in the process: a math/rand
// generator seeded from the clock, or from recommend.seed when set, guarded
// by a mutex because *rand.Rand is not safe for concurrent use.
package picker
