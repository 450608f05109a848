package history

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreAppendAndGetByBuildID(t *testing.T) {
	store := openMemory(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, "b1", TypeBuildStarted, []byte(`{"domain":"example.com"}`), map[string]string{"k": "v"}))
	require.NoError(t, store.Append(ctx, "b2", TypeBuildStarted, []byte(`{}`), nil))
	require.NoError(t, store.Append(ctx, "b1", TypeBuildFinished, []byte(`{"outcome":"success"}`), nil))

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, TypeBuildStarted, events[0].Type)
	require.Equal(t, "v", events[0].Metadata["k"])
	require.Equal(t, TypeBuildFinished, events[1].Type)
	require.Nil(t, events[1].Metadata)

	none, err := store.GetByBuildID(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestStoreRecentNewestFirst(t *testing.T) {
	store := openMemory(t)
	ctx := t.Context()

	for i := range 5 {
		id := fmt.Sprintf("build-%d", i)
		require.NoError(t, store.Append(ctx, id, TypeBuildStarted, []byte(`{"domain":"example.com"}`), nil))
		require.NoError(t, store.Append(ctx, id, TypeBuildFinished,
			[]byte(`{"outcome":"success","documents":{"projects":2},"pages":2}`), nil))
	}

	runs, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, "build-4", runs[0].BuildID)
	require.Equal(t, "build-2", runs[2].BuildID)
	require.Equal(t, "success", runs[0].Status)
	require.Equal(t, 2, runs[0].Documents)
}

func TestStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), "b1", TypeBuildStarted, []byte(`{}`), nil))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByBuildID(t.Context(), "b1")
	require.NoError(t, err)
	require.Len(t, events, 1)
}
