package sampling

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

func population(n int) []catalog.Entry {
	entries := make([]catalog.Entry, n)
	for i := range entries {
		entries[i] = catalog.Entry{EntryID: fmt.Sprintf("p%d", i), System: "bulk"}
	}
	return entries
}

func TestReconcile(t *testing.T) {
	pop := population(10)

	t.Run("trims an oversized selection", func(t *testing.T) {
		result := Reconcile(pop[:7], pop, 5, rand.New(rand.NewSource(11)))

		require.Len(t, result, 5)
		distinctIDs(t, result)
		selected := make(map[string]bool)
		for _, e := range pop[:7] {
			selected[e.EntryID] = true
		}
		for _, e := range result {
			assert.Truef(t, selected[e.EntryID], "trim must only drop entries, %s was not selected", e.EntryID)
		}
	})

	t.Run("tops up from the complement", func(t *testing.T) {
		result := Reconcile(pop[:3], pop, 5, rand.New(rand.NewSource(11)))

		require.Len(t, result, 5)
		distinctIDs(t, result)
		// The original selection survives a top-up untouched, in order.
		for i, e := range pop[:3] {
			assert.Equal(t, e.EntryID, result[i].EntryID)
		}
	})

	t.Run("complement smaller than the shortfall", func(t *testing.T) {
		result := Reconcile(pop[:3], pop[:5], 10, rand.New(rand.NewSource(11)))
		require.Len(t, result, 5)
		distinctIDs(t, result)
	})

	t.Run("exact selection untouched", func(t *testing.T) {
		result := Reconcile(pop[:5], pop, 5, rand.New(rand.NewSource(11)))
		require.Len(t, result, 5)
		for i, e := range pop[:5] {
			assert.Equal(t, e.EntryID, result[i].EntryID)
		}
	})

	t.Run("negative target is a defect", func(t *testing.T) {
		assert.Panics(t, func() {
			Reconcile(pop[:2], pop, -1, rand.New(rand.NewSource(11)))
		})
	})
}
