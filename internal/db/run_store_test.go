package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStore_InsertRecent(t *testing.T) {
	store := NewRunStore(newTestDB(t).DB)

	first := &DeformRun{Operation: "deform", ScaleFactor: 0.95, ShiftFactor: 0.5, Lattices: 2}
	require.NoError(t, store.Insert(first))
	assert.NotEmpty(t, first.RunID)

	second := &DeformRun{Operation: "reset", ResetToUniform: true, Lattices: 1, Failures: 1}
	require.NoError(t, store.Insert(second))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second.RunID, runs[0].RunID)
	assert.Equal(t, "reset", runs[0].Operation)
	assert.True(t, runs[0].ResetToUniform)
	assert.Equal(t, 1, runs[0].Failures)

	assert.Equal(t, first.RunID, runs[1].RunID)
	assert.InDelta(t, 0.95, runs[1].ScaleFactor, 1e-12)
	assert.False(t, runs[1].CreatedAt.IsZero())
}

func TestRunStore_RecentLimit(t *testing.T) {
	store := NewRunStore(newTestDB(t).DB)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Insert(&DeformRun{Operation: "deform", Lattices: i}))
	}
	runs, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestParseTimestamp(t *testing.T) {
	assert.False(t, parseTimestamp("2024-05-01 10:11:12").IsZero())
	assert.False(t, parseTimestamp("2024-05-01T10:11:12Z").IsZero())
	assert.True(t, parseTimestamp("garbage").IsZero())
}
