package pebble

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/dbtest"
	"github.com/eigerco/levelbind/pkg/db/registry"
)

func TestConformanceInMemory(t *testing.T) {
	dbtest.RunConformance(t, func(t *testing.T) db.KVStore {
		store, err := OpenInMemory()
		require.NoError(t, err)
		return store
	})
}

func TestConformanceOnDisk(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	n := 0
	dbtest.RunConformance(t, func(t *testing.T) db.KVStore {
		n++
		store, err := Open(reg, fmt.Sprintf("conformance-%d.db", n), true, true)
		require.NoError(t, err)
		return store
	})
	assert.Equal(t, 0, reg.Len())
}

func TestSharedHandle(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	first, err := Open(reg, "shared.db", true, false)
	require.NoError(t, err)
	second, err := Open(reg, "shared.db", false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, db.PutString(first, "k", "v"))
	v, found, err := db.GetString(second, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	require.NoError(t, first.Close())
	assert.True(t, reg.IsOpen("shared.db"))

	// The second store keeps working after the first is closed
	require.NoError(t, db.PutString(second, "k2", "v2"))
	require.NoError(t, second.Close())
	assert.False(t, reg.IsOpen("shared.db"))
}

func TestOpenOptionsAndDestroy(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	_, err := Open(reg, "missing.db", false, false)
	assert.Error(t, err)
	assert.Equal(t, 0, reg.Len())

	store, err := Open(reg, "data.db", true, true)
	require.NoError(t, err)
	require.NoError(t, db.PutString(store, "persisted", "yes"))

	assert.ErrorIs(t, Destroy(reg, "data.db"), registry.ErrHandleOpen)
	require.NoError(t, store.Close())

	_, err = Open(reg, "data.db", true, true)
	assert.Error(t, err, "error_if_exists must reject an existing store")

	reopened, err := Open(reg, "data.db", false, false)
	require.NoError(t, err)
	v, found, err := db.GetString(reopened, "persisted")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "yes", v)
	require.NoError(t, reopened.Close())

	require.NoError(t, Destroy(reg, "data.db"))
	_, err = os.Stat(reg.Path("data.db"))
	assert.True(t, os.IsNotExist(err))
}
