//go:build sqlite

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreAntRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "paco.db"))
	require.NoError(t, err)
	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() { _ = store.Close() })

	low, high := testAnt(t, 0.2), testAnt(t, 0.8)
	require.NoError(t, store.SaveAnt(ctx, NewAntRecord("run-1", low)))
	require.NoError(t, store.SaveAnt(ctx, NewAntRecord("run-1", high)))
	require.NoError(t, store.SaveAnt(ctx, NewAntRecord("run-2", testAnt(t, 1))))

	record, ok, err := store.GetAnt(ctx, high.ID.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewAntRecord("run-1", high), record)

	records, err := store.ListAnts(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, high.ID.String(), records[0].ID)
	assert.Equal(t, low.ID.String(), records[1].ID)

	_, ok, err = store.GetAnt(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "paco.db"))
	_, err := store.ListAnts(context.Background(), "run-1")
	assert.ErrorContains(t, err, "not initialized")
	assert.NoError(t, store.Close())

	_, err = NewStore("sqlite", "")
	assert.Error(t, err)
}
