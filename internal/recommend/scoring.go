// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

import (
	"math"
	"strings"
	"time"
)

// Scoring constants.
const (
	baseScore = 1.0

	favoriteBonus = 1.2

	likeBonus      = 1.5
	neutralBonus   = 0.2
	dislikePenalty = 1.6

	recentCuisinePenalty = 1.0

	// noveltyHorizonDays is both the divisor of the novelty term and the
	// value assumed for never-visited candidates.
	noveltyHorizonDays = 30.0
	maxNoveltyRatio    = 1.5
	newPlaceBonus      = 1.4

	visitDecayPerVisit = 0.03
	maxVisitDecay      = 0.5
)

// Score maps a candidate to a preference score. recentCuisines holds the
// lowercased cuisines eaten within the fatigue window. The result is not
// floored; callers clamp it to a minimum weight before sampling.
//
// Score is pure: it reads no clock beyond now.
//
//nolint:gocritic // hugeParam: candidate passed by value, never mutated
func Score(c Candidate, recentCuisines map[string]struct{}, mode NoveltyMode, now time.Time) float64 {
	score := baseScore

	if c.IsFavorite {
		score += favoriteBonus
	}

	if c.UserRating != nil {
		switch *c.UserRating {
		case RatingLike:
			score += likeBonus
		case RatingNeutral:
			score += neutralBonus
		case RatingDislike:
			score -= dislikePenalty
		}
	}

	if len(recentCuisines) > 0 {
		for _, cuisine := range c.Cuisines {
			if _, eaten := recentCuisines[strings.ToLower(cuisine)]; eaten {
				score -= recentCuisinePenalty
				break
			}
		}
	}

	noveltyDays := noveltyHorizonDays
	if c.LastVisited != nil {
		noveltyDays = math.Max(0, now.Sub(*c.LastVisited).Hours()/24)
	}
	novelty := math.Min(noveltyDays/noveltyHorizonDays, maxNoveltyRatio)
	if c.IsNew {
		novelty += newPlaceBonus
	}
	score += novelty * mode.Multiplier()

	if c.VisitCount > 0 {
		score -= math.Min(float64(c.VisitCount)*visitDecayPerVisit, maxVisitDecay)
	}

	return score
}
