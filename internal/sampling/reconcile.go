package sampling

import (
	"math/rand"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

// Reconcile forces the combined per-stratum selection to the exact target
// size. An oversized selection is uniformly subsampled, which deliberately
// gives up the stratification and author bias: the exact-count contract
// wins. An undersized selection is topped up uniformly from the unselected
// remainder of the population.
//
// The result has min(target, len(population)) entries with distinct ids,
// assuming selected itself holds no duplicates.
func Reconcile(selected, population []catalog.Entry, target int, rng *rand.Rand) []catalog.Entry {
	if target < 0 {
		panic("sampling: negative target")
	}

	switch {
	case len(selected) > target:
		return drawUniform(selected, target, rng)

	case len(selected) < target:
		chosen := make(map[string]bool, len(selected))
		for _, e := range selected {
			chosen[e.EntryID] = true
		}
		pool := make([]catalog.Entry, 0, len(population)-len(selected))
		for _, e := range population {
			if !chosen[e.EntryID] {
				pool = append(pool, e)
			}
		}

		extra := target - len(selected)
		if extra > len(pool) {
			extra = len(pool)
		}
		if extra == 0 {
			return selected
		}
		out := make([]catalog.Entry, len(selected), len(selected)+extra)
		copy(out, selected)
		return append(out, drawUniform(pool, extra, rng)...)

	default:
		return selected
	}
}

// drawUniform returns k entries drawn uniformly without replacement, via a
// partial Fisher-Yates over a copy.
func drawUniform(entries []catalog.Entry, k int, rng *rand.Rand) []catalog.Entry {
	pool := make([]catalog.Entry, len(entries))
	copy(pool, entries)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
