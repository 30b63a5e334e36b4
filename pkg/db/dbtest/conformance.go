package dbtest

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/eigerco/levelbind/pkg/db"
)

// Opener returns a new, empty and open store. The suite closes every store it
// opens; openers should register any extra cleanup with t.Cleanup.
type Opener func(t *testing.T) db.KVStore

// RunConformance checks that the stores returned by open honour the
// db.KVStore contract.
func RunConformance(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{name: "basic_put_get", fn: testBasicPutGet},
		{name: "overwrite", fn: testOverwrite},
		{name: "delete_operations", fn: testDelete},
		{name: "ordering", fn: testOrdering},
		{name: "end_to_end_scenario", fn: testEndToEndScenario},
		{name: "binary_keys", fn: testBinaryKeys},
		{name: "empty_key_and_value", fn: testEmptyKeyAndValue},
		{name: "snapshot_isolation", fn: testSnapshotIsolation},
		{name: "iterator_validity", fn: testIteratorValidity},
		{name: "iterator_closure", fn: testIteratorClosure},
		{name: "batch_operations", fn: testBatchOperations},
		{name: "store_closure", fn: testStoreClosure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := open(t)
			defer store.Close() //nolint:errcheck

			tc.fn(t, store)
		})
	}

	t.Run("merge", func(t *testing.T) {
		for _, batched := range []bool{false, true} {
			dst, src := open(t), open(t)
			testMerge(t, dst, src, batched)
			require.NoError(t, dst.Close())
			require.NoError(t, src.Close())
		}
	})
}

func testBasicPutGet(t *testing.T, store db.KVStore) {
	key := []byte("test-key")
	value := []byte("test-value")

	err := store.Put(key, value)
	require.NoError(t, err)

	retrieved, found, err := store.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, value, retrieved)

	// Non-existent key is absent, not an error
	retrieved, found, err = store.Get([]byte("non-existent"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, retrieved)

	require.NoError(t, db.PutString(store, "text", "välue"))
	s, found, err := db.GetString(store, "text")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "välue", s)

	raw, _, err := store.Get([]byte("text"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v\xc3\xa4lue"), raw)
}

func testOverwrite(t *testing.T, store db.KVStore) {
	require.NoError(t, db.PutString(store, "k", "v1"))
	require.NoError(t, db.PutString(store, "k", "v2"))

	v, found, err := db.GetString(store, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)
	assert.Equal(t, []string{"k"}, Keys(t, store))
}

func testDelete(t *testing.T, store db.KVStore) {
	for _, k := range []string{"b", "d", "f"} {
		require.NoError(t, db.PutString(store, k, k))
	}

	// Delete non-existent key should not error nor touch neighbours
	require.NoError(t, db.DeleteString(store, "c"))
	assert.Equal(t, []string{"b", "d", "f"}, Keys(t, store))

	require.NoError(t, db.DeleteString(store, "d"))
	assert.Equal(t, []string{"b", "f"}, Keys(t, store))

	_, found, err := db.GetString(store, "d")
	require.NoError(t, err)
	assert.False(t, found)
}

func testOrdering(t *testing.T, store db.KVStore) {
	rng := rand.New(rand.NewSource(7))
	want := map[string]string{}
	for i := 0; i < 500; i++ {
		k := make([]byte, 1+rng.Intn(3))
		rng.Read(k) //nolint:errcheck
		if rng.Intn(4) == 0 {
			require.NoError(t, store.Delete(k))
			delete(want, string(k))
			continue
		}
		v := make([]byte, rng.Intn(8))
		rng.Read(v) //nolint:errcheck
		require.NoError(t, store.Put(k, v))
		want[string(k)] = string(v)
	}

	wantKeys := make([]string, 0, len(want))
	for k := range want {
		wantKeys = append(wantKeys, k)
	}
	slices.Sort(wantKeys)
	assert.Equal(t, wantKeys, Keys(t, store))

	for k, v := range want {
		got, found, err := store.Get([]byte(k))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte(v), got)
	}
}

func testEndToEndScenario(t *testing.T, store db.KVStore) {
	pairs := [][2]string{
		{"dbMeta", "a"},
		{"dbMeta", "b"},
		{"db.farm.1", "c"},
		{"dbMeta", "d"},
		{"db.farm.0", "e"},
		{"dbMeta", "f"},
		{"dbMetaverse", "g"},
	}
	for _, p := range pairs {
		require.NoError(t, db.PutString(store, p[0], p[1]))
	}

	assert.Equal(t, []string{"db.farm.0", "db.farm.1", "dbMeta", "dbMetaverse"}, Keys(t, store))

	v, found, err := db.GetString(store, "dbMeta")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "f", v)
}

func testBinaryKeys(t *testing.T, store db.KVStore) {
	keys := [][]byte{{0xff}, {0x00}, {0x01, 0x02, 0x03}, {0x80}, {0x7f, 0xff}}
	for i, k := range keys {
		require.NoError(t, store.Put(k, []byte{byte(i)}))
	}
	assert.Equal(t, []string{"\x00", "\x01\x02\x03", "\x7f\xff", "\x80", "\xff"}, Keys(t, store))

	v, found, err := store.Get([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{2}, v)
}

func testEmptyKeyAndValue(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put([]byte{}, []byte{}))
	require.NoError(t, store.Put([]byte("nil-value"), nil))

	for _, key := range [][]byte{{}, []byte("nil-value")} {
		v, found, err := store.Get(key)
		require.NoError(t, err)
		assert.True(t, found, "%q", key)
		assert.NotNil(t, v, "%q", key)
		assert.Empty(t, v, "%q", key)
	}

	_, found, err := store.Get([]byte("absent"))
	require.NoError(t, err)
	assert.False(t, found)

	iter, err := store.NewIterator()
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	require.NoError(t, iter.SeekToFirst())
	require.True(t, iter.Valid())
	k, err := iter.Key()
	require.NoError(t, err)
	assert.Empty(t, k)
	v, err := iter.Value()
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	require.NoError(t, iter.Next())
	require.True(t, iter.Valid())
	v, err = iter.Value()
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)
}

func testSnapshotIsolation(t *testing.T, store db.KVStore) {
	require.NoError(t, db.PutString(store, "a", "1"))
	require.NoError(t, db.PutString(store, "b", "2"))

	iter, err := store.NewIterator()
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	require.NoError(t, db.PutString(store, "c", "3"))
	require.NoError(t, db.PutString(store, "a", "changed"))
	require.NoError(t, db.DeleteString(store, "b"))

	var seen [][2]string
	require.NoError(t, iter.SeekToFirst())
	for iter.Valid() {
		k, err := db.KeyString(iter)
		require.NoError(t, err)
		v, err := db.ValueString(iter)
		require.NoError(t, err)
		seen = append(seen, [2]string{k, v})
		require.NoError(t, iter.Next())
	}
	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, seen)

	// A new iterator sees the writes.
	assert.Equal(t, []string{"a", "c"}, Keys(t, store))
}

func testIteratorValidity(t *testing.T, store db.KVStore) {
	empty, err := store.NewIterator()
	require.NoError(t, err)
	require.NoError(t, empty.SeekToFirst())
	assert.False(t, empty.Valid())
	require.NoError(t, empty.SeekLast())
	assert.False(t, empty.Valid())
	require.NoError(t, empty.Close())

	for _, k := range []string{"key1", "key2", "key3"} {
		require.NoError(t, db.PutString(store, k, "value-"+k))
	}

	iter, err := store.NewIterator()
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	// Initial state - iterator is not positioned
	assert.False(t, iter.Valid())
	assert.ErrorIs(t, iter.Next(), db.ErrIteratorInvalid)
	_, err = iter.Value()
	assert.ErrorIs(t, err, db.ErrIteratorInvalid)

	require.NoError(t, db.SeekString(iter, "key2"))
	requireAt(t, iter, "key2", "value-key2")

	require.NoError(t, db.SeekString(iter, "key10"))
	requireAt(t, iter, "key2", "value-key2")

	require.NoError(t, db.SeekString(iter, "key4"))
	assert.False(t, iter.Valid())

	require.NoError(t, iter.SeekLast())
	requireAt(t, iter, "key3", "value-key3")
	require.NoError(t, iter.Prev())
	requireAt(t, iter, "key2", "value-key2")

	// Walking off the end invalidates without raising
	require.NoError(t, iter.Next())
	require.NoError(t, iter.Next())
	assert.False(t, iter.Valid())
	_, err = iter.Key()
	assert.ErrorIs(t, err, db.ErrIteratorInvalid)

	require.NoError(t, iter.SeekToFirst())
	requireAt(t, iter, "key1", "value-key1")
	require.NoError(t, iter.Prev())
	assert.False(t, iter.Valid())
	assert.ErrorIs(t, iter.Prev(), db.ErrIteratorInvalid)
}

func testIteratorClosure(t *testing.T, store db.KVStore) {
	require.NoError(t, db.PutString(store, "a", "1"))

	iter, err := store.NewIterator()
	require.NoError(t, err)
	require.NoError(t, iter.SeekToFirst())
	require.True(t, iter.Valid())

	require.NoError(t, iter.Close())
	assert.False(t, iter.Valid())
	assert.ErrorIs(t, iter.SeekToFirst(), db.ErrClosed)
	assert.ErrorIs(t, iter.SeekLast(), db.ErrClosed)
	assert.ErrorIs(t, iter.Seek([]byte("a")), db.ErrClosed)
	assert.ErrorIs(t, iter.Next(), db.ErrClosed)
	assert.ErrorIs(t, iter.Prev(), db.ErrClosed)
	_, err = iter.Key()
	assert.ErrorIs(t, err, db.ErrClosed)
	_, err = iter.Value()
	assert.ErrorIs(t, err, db.ErrClosed)

	// Double close should not error
	assert.NoError(t, iter.Close())

	// The store is unaffected
	v, found, err := db.GetString(store, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", v)
}

func testBatchOperations(t *testing.T, store db.KVStore) {
	require.NoError(t, db.PutString(store, "key2", "old"))

	batch := store.NewBatch()
	defer batch.Close() //nolint:errcheck

	keys := [][]byte{[]byte("key1"), []byte("key2"), []byte("key3")}
	values := [][]byte{[]byte("value1"), []byte("value2"), []byte("value3")}
	for i := range keys {
		require.NoError(t, batch.Put(keys[i], values[i]))
	}
	require.NoError(t, batch.Delete(keys[2]))

	_, found, err := store.Get(keys[0])
	require.NoError(t, err)
	assert.False(t, found, "batch writes must not be visible before commit")

	require.NoError(t, batch.Commit())

	val1, found, err := store.Get(keys[0])
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, values[0], val1)

	val2, _, err := store.Get(keys[1])
	require.NoError(t, err)
	assert.Equal(t, values[1], val2)

	_, found, err = store.Get(keys[2])
	require.NoError(t, err)
	assert.False(t, found)

	// Operations after commit should fail
	assert.ErrorIs(t, batch.Put([]byte("k"), []byte("v")), db.ErrBatchDone)
	assert.ErrorIs(t, batch.Delete([]byte("k")), db.ErrBatchDone)
	assert.ErrorIs(t, batch.Commit(), db.ErrBatchDone)

	// Close should not error, twice
	assert.NoError(t, batch.Close())
	assert.NoError(t, batch.Close())
}

func testStoreClosure(t *testing.T, store db.KVStore) {
	require.NoError(t, db.PutString(store, "key", "value"))

	err := store.Close()
	require.NoError(t, err)

	// Test operations after close
	_, _, err = store.Get([]byte("key"))
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Put([]byte("key"), []byte("value"))
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Delete([]byte("key"))
	assert.ErrorIs(t, err, db.ErrClosed)

	_, err = store.NewIterator()
	assert.ErrorIs(t, err, db.ErrClosed)

	batch := store.NewBatch()
	assert.ErrorIs(t, batch.Put([]byte("key"), []byte("value")), db.ErrClosed)
	assert.ErrorIs(t, batch.Delete([]byte("key")), db.ErrClosed)
	assert.ErrorIs(t, batch.Commit(), db.ErrClosed)
	assert.NoError(t, batch.Close())

	// Double close should not error
	err = store.Close()
	assert.NoError(t, err)
}

func testMerge(t *testing.T, dst, src db.KVStore, batched bool) {
	require.NoError(t, db.PutString(dst, "key1", "value1"))
	require.NoError(t, db.PutString(dst, "key2", "value2"))
	require.NoError(t, dst.Put([]byte{1, 2, 3}, []byte{4, 5, 6}))

	require.NoError(t, db.PutString(src, "keep", "value"))
	require.NoError(t, db.PutString(src, "key2", "valueNew"))
	require.NoError(t, src.Put([]byte{1, 2, 3}, []byte{7, 8, 9}))

	require.NoError(t, db.Merge(dst, src, batched))

	for k, want := range map[string]string{"key1": "value1", "key2": "valueNew", "keep": "value"} {
		v, found, err := db.GetString(dst, k)
		require.NoError(t, err)
		assert.True(t, found, k)
		assert.Equal(t, want, v, k)
	}
	v, _, err := dst.Get([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, v)

	// src is untouched
	assert.Equal(t, []string{"\x01\x02\x03", "keep", "key2"}, Keys(t, src))
}

func requireAt(t *testing.T, iter db.Iterator, key, value string) {
	t.Helper()
	require.True(t, iter.Valid())
	k, err := db.KeyString(iter)
	require.NoError(t, err)
	v, err := db.ValueString(iter)
	require.NoError(t, err)
	assert.Equal(t, key, k)
	assert.Equal(t, value, v)
}
