// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package recommend is the recommendation core: candidate identity, pool
building, scoring, weighted sampling and the TopK engine.

# Pipeline

	saved []Restaurant --FromSaved--+
	                                +--BuildPool--> []Candidate --TopK--> picks
	nearby []Candidate -------------+

TopK filters the pool (veto, recently visited, cuisine, distance), scores the
survivors with Score, floors each score at Config.MinWeight and draws up to K
distinct picks with WeightedSample.

# Scoring

	score = 1.0
	      + 1.2                        if favorite
	      + 1.5 | 0.2 | -1.6           rating like | neutral | dislike
	      - 1.0                        if a cuisine was eaten in the last 3 days
	      + novelty * mode multiplier  novelty = min(days/30, 1.5) (+1.4 if new)
	      - min(visits * 0.03, 0.5)

Never-visited candidates count as 30 days since the last visit. Mode
multipliers are safe 0.5, balanced 1.0 and adventure 1.9.

# Randomness

Every sampling entry point takes an explicit RandSource. Nothing in this
package reads a global generator, so callers can reproduce a sequence by
passing a seeded *rand.Rand.

# Thread Safety

All functions are pure and Engine holds no mutable state.
*/
package recommend
