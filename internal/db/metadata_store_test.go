package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(t.TempDir() + "/meta.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMetadataStore_SaveLoad(t *testing.T) {
	store := NewMetadataStore(newTestDB(t).DB)

	kv := map[string]string{
		"bd_locked_axis_enabled": "1",
		"bd_locked_axis_idx":     "2",
		"bd_locked_world_axis":   "Z",
	}
	require.NoError(t, store.Save("obj-1", kv))

	got, err := store.Load("obj-1")
	require.NoError(t, err)
	if diff := cmp.Diff(kv, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadataStore_SaveOverwrites(t *testing.T) {
	store := NewMetadataStore(newTestDB(t).DB)

	require.NoError(t, store.Save("obj-1", map[string]string{"bd_locked_axis_idx": "0"}))
	require.NoError(t, store.Save("obj-1", map[string]string{"bd_locked_axis_idx": "1"}))

	got, err := store.Load("obj-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bd_locked_axis_idx": "1"}, got)
}

func TestMetadataStore_LoadMissing(t *testing.T) {
	store := NewMetadataStore(newTestDB(t).DB)

	got, err := store.Load("nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetadataStore_DeleteAndIDs(t *testing.T) {
	store := NewMetadataStore(newTestDB(t).DB)

	require.NoError(t, store.Save("b", map[string]string{"k": "v"}))
	require.NoError(t, store.Save("a", map[string]string{"k": "v"}))

	ids, err := store.ObjectIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete("a"))
	ids, err = store.ObjectIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}
