package sampling

import (
	"fmt"
	"math"
	"sort"
)

// Allocate plans a per-stratum quota for the requested target size.
// Quotas are proportional to stratum size with two corrections: every
// non-empty stratum gets at least one slot, and rounding drift is settled
// one unit at a time across strata in fixed order (largest first, label
// breaking ties) so the same input always yields the same quotas.
//
// When shrinking, a stratum already at one slot is never cut further; once
// every stratum is down to one slot the total may still exceed target.
// Reconcile owns the exact-count guarantee, so the quotas returned here
// are a plan, not a contract.
func Allocate(sizes map[string]int, target int) (map[string]int, error) {
	if target <= 0 {
		return nil, ErrInvalidTarget
	}

	total := 0
	for label, n := range sizes {
		if n < 0 {
			panic(fmt.Sprintf("sampling: negative size %d for stratum %q", n, label))
		}
		total += n
	}
	if total == 0 {
		return nil, ErrEmptyPopulation
	}
	if target > total {
		// Clamping is the engine's job; reaching here is a defect.
		panic(fmt.Sprintf("sampling: target %d exceeds population %d", target, total))
	}

	quotas := make(map[string]int, len(sizes))
	current := 0
	for label, n := range sizes {
		if n == 0 {
			continue
		}
		q := int(math.Round(float64(target) * float64(n) / float64(total)))
		if q < 1 {
			q = 1
		}
		quotas[label] = q
		current += q
	}

	order := strataOrder(sizes)

	if current < target {
		for i := 0; current < target; i++ {
			quotas[order[i%len(order)]]++
			current++
		}
	} else if current > target {
		for i := 0; current > target && anyAboveOne(quotas); i++ {
			label := order[i%len(order)]
			if quotas[label] > 1 {
				quotas[label]--
				current--
			}
		}
	}

	return quotas, nil
}

// strataOrder returns the non-empty stratum labels sorted by size
// descending, label ascending. Every stratum iteration in this package
// goes through this order; map iteration order is never load-bearing.
func strataOrder(sizes map[string]int) []string {
	labels := make([]string, 0, len(sizes))
	for label, n := range sizes {
		if n > 0 {
			labels = append(labels, label)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if sizes[labels[i]] != sizes[labels[j]] {
			return sizes[labels[i]] > sizes[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

func anyAboveOne(quotas map[string]int) bool {
	for _, q := range quotas {
		if q > 1 {
			return true
		}
	}
	return false
}
