package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlphaWatcher/internal/domain"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "seen.json"))
	seen, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)
	ctx := context.Background()

	seen := map[string]struct{}{"b2": {}, "a1": {}}
	require.NoError(t, store.Persist(ctx, seen))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seen, loaded)

	// persist(load()) is a no-op on content.
	require.NoError(t, store.Persist(ctx, loaded))
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seen, again)
}

func TestFileStoreSortedOnDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)

	require.NoError(t, store.Persist(context.Background(), map[string]struct{}{
		"zz": {}, "aa": {}, "mm": {},
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["aa","mm","zz"]`, string(raw))
}

func TestFileStoreCorruptDegradesToEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	seen, err := store.Load(context.Background())

	require.ErrorIs(t, err, domain.ErrStateCorrupt)
	assert.Empty(t, seen, "corrupt state must degrade to an empty set, not fail")
}

func TestFileStoreAddThenReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, map[string]struct{}{"a1": {}}))

	seen, err := store.Load(ctx)
	require.NoError(t, err)
	seen["x9"] = struct{}{}
	require.NoError(t, store.Persist(ctx, seen))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, reloaded, "a1")
	assert.Contains(t, reloaded, "x9")
}
