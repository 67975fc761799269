// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

// BuildPool merges saved restaurants and nearby candidates into one pool.
//
//   - includeNearby false: only saved restaurants.
//   - onlyNearby true: the nearby list as given.
//   - otherwise: saved restaurants plus nearby places whose normalized name
//     does not match a saved one, so a tracked place never appears twice.
func BuildPool(saved []Restaurant, nearby []Candidate, includeNearby, onlyNearby bool) []Candidate {
	savedCandidates := make([]Candidate, 0, len(saved))
	for i := range saved {
		savedCandidates = append(savedCandidates, FromSaved(saved[i]))
	}

	if !includeNearby {
		return savedCandidates
	}
	if onlyNearby {
		return append([]Candidate(nil), nearby...)
	}

	savedNames := make(map[string]struct{}, len(savedCandidates))
	for i := range savedCandidates {
		savedNames[NormalizeName(savedCandidates[i].Name)] = struct{}{}
	}

	pool := savedCandidates
	for i := range nearby {
		if _, tracked := savedNames[NormalizeName(nearby[i].Name)]; tracked {
			continue
		}
		pool = append(pool, nearby[i])
	}
	return pool
}

// DedupeByID keeps the first candidate of each identity, preserving order.
func DedupeByID(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		if _, dup := seen[candidates[i].ID]; dup {
			continue
		}
		seen[candidates[i].ID] = struct{}{}
		out = append(out, candidates[i])
	}
	return out
}

// WithoutIDs returns the candidates whose identity is not in ids.
func WithoutIDs(candidates []Candidate, ids []string) []Candidate {
	if len(ids) == 0 {
		return append([]Candidate(nil), candidates...)
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		if _, ok := drop[candidates[i].ID]; !ok {
			out = append(out, candidates[i])
		}
	}
	return out
}
