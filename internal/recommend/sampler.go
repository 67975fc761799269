// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package recommend

// RandSource yields uniform floats in [0, 1). *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Weighted pairs an item with a non-negative selection weight.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// WeightedSample draws up to k distinct items without replacement. Each
// round picks an item with probability proportional to its weight among the
// items still remaining. When every remaining weight is zero the remaining
// items are appended in order until k is reached.
//
// The result has min(k, len(items)) elements in selection order. The input
// slice is not modified.
func WeightedSample[T any](items []Weighted[T], k int, rng RandSource) []T {
	if k <= 0 || len(items) == 0 {
		return []T{}
	}
	if k > len(items) {
		k = len(items)
	}

	remaining := append([]Weighted[T](nil), items...)
	picked := make([]T, 0, k)

	for len(picked) < k && len(remaining) > 0 {
		total := 0.0
		for i := range remaining {
			if remaining[i].Weight > 0 {
				total += remaining[i].Weight
			}
		}

		if total <= 0 {
			for i := 0; i < len(remaining) && len(picked) < k; i++ {
				picked = append(picked, remaining[i].Item)
			}
			break
		}

		threshold := rng.Float64() * total
		// Rounding can leave threshold at total; fall back to the first item.
		chosen := 0
		cumulative := 0.0
		for i := range remaining {
			if remaining[i].Weight > 0 {
				cumulative += remaining[i].Weight
			}
			if threshold < cumulative {
				chosen = i
				break
			}
		}

		picked = append(picked, remaining[chosen].Item)
		remaining = append(remaining[:chosen], remaining[chosen+1:]...)
	}

	return picked
}
