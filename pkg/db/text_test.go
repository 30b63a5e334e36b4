package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/memory"
)

func TestTextRoundTrip(t *testing.T) {
	store := memory.New()
	defer store.Close() //nolint:errcheck

	require.NoError(t, db.PutString(store, "ключ", "значение 🍓"))

	v, found, err := db.GetString(store, "ключ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "значение 🍓", v)

	raw, _, err := store.Get([]byte("ключ"))
	require.NoError(t, err)
	assert.Equal(t, []byte("значение 🍓"), raw)

	require.NoError(t, db.DeleteString(store, "ключ"))
	_, found, err = db.GetString(store, "ключ")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDecodeInvalidUTF8(t *testing.T) {
	s, err := db.DecodeText([]byte{'a', 0xff, 'b'})
	require.NoError(t, err)
	assert.Equal(t, "a�b", s)

	b, err := db.EncodeText("a\xffb")
	require.NoError(t, err)
	assert.Equal(t, []byte("a�b"), b)
}

func TestIteratorTextAccessors(t *testing.T) {
	store := memory.New()
	require.NoError(t, db.PutString(store, "key", "value"))
	require.NoError(t, store.Put([]byte{1, 2, 3}, []byte{0xf1, 0xfb, 0x09, 0x00}))

	it, err := store.NewIterator()
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	require.NoError(t, db.SeekString(it, "key"))
	k, err := db.KeyString(it)
	require.NoError(t, err)
	v, err := db.ValueString(it)
	require.NoError(t, err)
	assert.Equal(t, "key", k)
	assert.Equal(t, "value", v)

	require.NoError(t, it.Next())
	_, err = db.KeyString(it)
	assert.ErrorIs(t, err, db.ErrIteratorInvalid)
	_, err = db.ValueString(it)
	assert.ErrorIs(t, err, db.ErrIteratorInvalid)
}
