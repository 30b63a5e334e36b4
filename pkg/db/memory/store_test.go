package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
)

func TestStore(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store *Store)
	}{
		{
			name: "insertion_positions",
			fn:   testInsertionPositions,
		},
		{
			name: "overwrite_keeps_length",
			fn:   testOverwriteKeepsLength,
		},
		{
			name: "delete_exact_match_only",
			fn:   testDeleteExactMatchOnly,
		},
		{
			name: "stepwise_scenario",
			fn:   testStepwiseScenario,
		},
		{
			name: "caller_buffers_not_aliased",
			fn:   testCallerBuffersNotAliased,
		},
		{
			name: "empty_key_and_value",
			fn:   testEmptyKeyAndValue,
		},
		{
			name: "store_closure",
			fn:   testStoreClosure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := New()
			defer store.Close() //nolint:errcheck

			tc.fn(t, store)
		})
	}
}

func put(t *testing.T, store *Store, k, v string) {
	t.Helper()
	require.NoError(t, store.Put([]byte(k), []byte(v)))
}

func testInsertionPositions(t *testing.T, _ *Store) {
	tests := []struct {
		key     string
		wantIdx int
		wantLen int
	}{
		{"a", 0, 4},
		{"c", 1, 4},
		{"f", 2, 3},
		{"g", 3, 4},
	}
	for _, tc := range tests {
		store := New()
		put(t, store, "b", "1")
		put(t, store, "d", "2")
		put(t, store, "f", "3")

		put(t, store, tc.key, "new")
		assert.Equal(t, tc.wantLen, store.Len(), tc.key)
		assert.Equal(t, Key(tc.key), store.kv[tc.wantIdx].key, tc.key)
		assert.Equal(t, []byte("new"), store.kv[tc.wantIdx].value, tc.key)
	}
}

func testOverwriteKeepsLength(t *testing.T, store *Store) {
	put(t, store, "k", "v1")
	put(t, store, "k", "v2")
	assert.Equal(t, 1, store.Len())

	v, found, err := store.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v2"), v)
}

func testDeleteExactMatchOnly(t *testing.T, store *Store) {
	put(t, store, "b", "1")
	put(t, store, "d", "2")
	put(t, store, "f", "3")

	// "c" is absent; its insertion point holds "d", which must survive.
	require.NoError(t, store.Delete([]byte("c")))
	assert.Equal(t, []string{"b", "d", "f"}, store.kv.keys())

	require.NoError(t, store.Delete([]byte("z")))
	assert.Equal(t, []string{"b", "d", "f"}, store.kv.keys())

	require.NoError(t, store.Delete([]byte("d")))
	assert.Equal(t, []string{"b", "f"}, store.kv.keys())

	_, found, err := store.Get([]byte("d"))
	require.NoError(t, err)
	assert.False(t, found)
}

func testStepwiseScenario(t *testing.T, store *Store) {
	steps := []struct {
		key, value string
		want       []string
	}{
		{"dbMeta", "a", []string{"dbMeta"}},
		{"dbMeta", "b", []string{"dbMeta"}},
		{"db.farm.1", "c", []string{"db.farm.1", "dbMeta"}},
		{"dbMeta", "d", []string{"db.farm.1", "dbMeta"}},
		{"db.farm.0", "e", []string{"db.farm.0", "db.farm.1", "dbMeta"}},
		{"dbMeta", "f", []string{"db.farm.0", "db.farm.1", "dbMeta"}},
		{"dbMetaverse", "g", []string{"db.farm.0", "db.farm.1", "dbMeta", "dbMetaverse"}},
	}
	for _, step := range steps {
		put(t, store, step.key, step.value)
		assert.Equal(t, step.want, store.kv.keys(), "after put %q", step.key)
	}

	v, found, err := db.GetString(store, "dbMeta")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "f", v)
}

func testCallerBuffersNotAliased(t *testing.T, store *Store) {
	key := []byte("key")
	value := []byte("value")
	require.NoError(t, store.Put(key, value))

	key[0] = 'X'
	value[0] = 'X'

	got, found, err := store.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("value"), got)

	got[0] = 'Y'
	again, _, err := store.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func testEmptyKeyAndValue(t *testing.T, store *Store) {
	require.NoError(t, store.Put(nil, nil))
	put(t, store, "a", "")

	v, found, err := store.Get([]byte{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	assert.Equal(t, []string{"", "a"}, store.kv.keys())
}

func testStoreClosure(t *testing.T, store *Store) {
	put(t, store, "a", "1")
	require.NoError(t, store.Close())

	err := store.Put([]byte("a"), []byte("2"))
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Delete([]byte("a"))
	assert.ErrorIs(t, err, db.ErrClosed)

	_, _, err = store.Get([]byte("a"))
	assert.ErrorIs(t, err, db.ErrClosed)

	_, err = store.NewIterator()
	assert.ErrorIs(t, err, db.ErrClosed)

	assert.Equal(t, 0, store.Len())

	// Double close should not error
	assert.NoError(t, store.Close())
}
