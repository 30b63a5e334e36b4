package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
)

func TestMultipleBatches(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	batch1 := store.NewBatch()
	batch2 := store.NewBatch()
	defer batch1.Close() //nolint:errcheck
	defer batch2.Close() //nolint:errcheck

	// Write to both batches
	err = batch1.Put([]byte("key1"), []byte("batch1"))
	require.NoError(t, err)
	err = batch2.Put([]byte("key2"), []byte("batch2"))
	require.NoError(t, err)

	// Commit both batches
	require.NoError(t, batch1.Commit())
	require.NoError(t, batch2.Commit())

	// Verify both writes succeeded
	val1, found, err := store.Get([]byte("key1"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("batch1"), val1)

	val2, found, err := store.Get([]byte("key2"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("batch2"), val2)
}

func TestBatchClosedBeforeCommit(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("key"), []byte("value")))
	require.NoError(t, batch.Close())

	_, found, err := store.Get([]byte("key"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBatchOnClosedStore(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)

	batch := store.NewBatch()
	require.NoError(t, store.Close())

	assert.ErrorIs(t, batch.Put([]byte("key"), []byte("value")), db.ErrClosed)
	assert.ErrorIs(t, batch.Delete([]byte("key")), db.ErrClosed)
	assert.ErrorIs(t, batch.Commit(), db.ErrClosed)
	assert.NoError(t, batch.Close())
}
