// Package sampling implements stratified sampling over a labeled
// population with a preference for spreading the sample across distinct
// authors.
//
// A run proceeds in three stages: Allocate plans a per-stratum quota
// proportional to stratum size, SelectDiverse draws each stratum's share
// while favoring globally unseen authors, and Reconcile trims or tops up
// the combined result to the exact requested size. All randomness comes
// from one seeded source per run, so results are reproducible.
package sampling

import (
	"fmt"
	"math/rand"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

// Engine runs seeded, reproducible sampling over a population snapshot.
// The zero value samples with seed 0; use New to pick a seed.
type Engine struct {
	Seed int64
}

// New returns an Engine drawing from the given seed.
func New(seed int64) *Engine { return &Engine{Seed: seed} }

// Result is one completed sampling run.
type Result struct {
	Sample []catalog.Entry

	// PerStratum counts sample entries per system label.
	PerStratum map[string]int

	// DistinctAuthors counts distinct non-absent author keys in the sample.
	DistinctAuthors int

	// Clamped reports that the requested target exceeded the population
	// and was reduced to the population size.
	Clamped bool
}

// Run draws a sample of exactly min(target, len(population)) entries.
//
// The run is deterministic for a fixed population, target, and seed:
// strata are processed largest first with labels breaking ties, and all
// randomness comes from one rand.Rand seeded here. The author set and the
// RNG are both scoped to this call, so concurrent runs do not interfere.
func (e *Engine) Run(population []catalog.Entry, target int) (Result, error) {
	if target <= 0 {
		return Result{}, ErrInvalidTarget
	}
	if len(population) == 0 {
		return Result{}, ErrEmptyPopulation
	}

	clamped := false
	if target > len(population) {
		target = len(population)
		clamped = true
	}

	buckets := make(map[string][]catalog.Entry)
	sizes := make(map[string]int)
	for _, entry := range population {
		label := entry.System
		if label == "" {
			label = catalog.UnknownSystem
		}
		buckets[label] = append(buckets[label], entry)
		sizes[label]++
	}

	quotas, err := Allocate(sizes, target)
	if err != nil {
		return Result{}, err
	}

	rng := rand.New(rand.NewSource(e.Seed))
	usedAuthors := make(map[string]bool)

	var selected []catalog.Entry
	for _, label := range strataOrder(sizes) {
		selected = append(selected, SelectDiverse(buckets[label], quotas[label], usedAuthors, rng)...)
	}

	sample := Reconcile(selected, population, target, rng)
	if len(sample) != target {
		panic(fmt.Sprintf("sampling: reconciled size %d, want %d", len(sample), target))
	}

	res := Result{
		Sample:     sample,
		PerStratum: make(map[string]int, len(sizes)),
		Clamped:    clamped,
	}
	authors := make(map[string]bool)
	for _, entry := range sample {
		label := entry.System
		if label == "" {
			label = catalog.UnknownSystem
		}
		res.PerStratum[label]++
		if entry.HasAuthor() {
			authors[entry.MainAuthor] = true
		}
	}
	res.DistinctAuthors = len(authors)

	return res, nil
}
