package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

func openTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Open(filepath.Join(t.TempDir(), "cache", "curator-cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { snap.Close() })
	return snap
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := openTestSnapshot(t)

	count, savedAt, err := snap.Info()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, savedAt.IsZero(), "fresh cache has no snapshot")

	entries := []catalog.Entry{
		{EntryID: "e3", UploadID: "u1", Mainfile: "a.out", MainAuthor: "Jane Doe", System: "bulk", StructuralType: "bulk"},
		{EntryID: "e1", System: "unknown"},
		{EntryID: "e2", MainAuthor: "Max Planck", System: "molecule / cluster", StructuralType: "molecule / cluster"},
	}
	require.NoError(t, snap.Save(entries, 2))

	loaded, err := snap.Load()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(entries, loaded), "load must preserve fetch order")

	count, savedAt, err = snap.Info()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.WithinDuration(t, time.Now(), savedAt, time.Minute)
}

func TestSnapshotSaveReplaces(t *testing.T) {
	snap := openTestSnapshot(t)

	require.NoError(t, snap.Save([]catalog.Entry{
		{EntryID: "old1", System: "bulk"},
		{EntryID: "old2", System: "bulk"},
	}, 0))
	require.NoError(t, snap.Save([]catalog.Entry{
		{EntryID: "new1", System: "2D"},
	}, 1))

	loaded, err := snap.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new1", loaded[0].EntryID)

	count, _, err := snap.Info()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSnapshotReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curator-cache.db")

	snap, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, snap.Save([]catalog.Entry{{EntryID: "e1", System: "bulk"}}, 0))
	require.NoError(t, snap.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "e1", loaded[0].EntryID)
}
