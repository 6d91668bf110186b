package sampling

import (
	"math/rand"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

// SelectDiverse draws up to quota entries from one stratum, preferring
// entries whose author has not been used anywhere in the running sample.
//
// usedAuthors is shared across all stratum calls of one engine run: an
// author claimed by an earlier stratum is no longer fresh for later ones.
// Phase one walks a shuffled copy of the stratum taking only fresh
// authors; phase two refills from the same shuffled order ignoring author
// overlap. The result never contains an entry twice and never exceeds
// min(quota, len(entries)).
func SelectDiverse(entries []catalog.Entry, quota int, usedAuthors map[string]bool, rng *rand.Rand) []catalog.Entry {
	if quota < 0 {
		panic("sampling: negative quota")
	}

	need := quota
	if len(entries) < need {
		need = len(entries)
	}
	if need == 0 {
		return nil
	}

	shuffled := make([]catalog.Entry, len(entries))
	copy(shuffled, entries)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	picked := make([]catalog.Entry, 0, need)
	taken := make(map[string]bool, need)

	for _, e := range shuffled {
		if len(picked) >= need {
			break
		}
		if !e.HasAuthor() || usedAuthors[e.MainAuthor] {
			continue
		}
		picked = append(picked, e)
		taken[e.EntryID] = true
		usedAuthors[e.MainAuthor] = true
	}

	if len(picked) < need {
		for _, e := range shuffled {
			if len(picked) >= need {
				break
			}
			if taken[e.EntryID] {
				continue
			}
			picked = append(picked, e)
			taken[e.EntryID] = true
		}
	}

	return picked
}
