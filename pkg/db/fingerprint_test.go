package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/memory"
)

func TestFingerprint(t *testing.T) {
	a := memory.New()
	b := memory.New()

	empty, err := db.Fingerprint(a)
	require.NoError(t, err)

	// Same pairs, different insertion order
	require.NoError(t, db.PutString(a, "x", "1"))
	require.NoError(t, db.PutString(a, "y", "2"))
	require.NoError(t, db.PutString(b, "y", "2"))
	require.NoError(t, db.PutString(b, "x", "1"))

	fa, err := db.Fingerprint(a)
	require.NoError(t, err)
	fb, err := db.Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.NotEqual(t, empty, fa)

	// Length prefixes keep ("ab","c") apart from ("a","bc")
	c := memory.New()
	d := memory.New()
	require.NoError(t, db.PutString(c, "ab", "c"))
	require.NoError(t, db.PutString(d, "a", "bc"))
	fc, err := db.Fingerprint(c)
	require.NoError(t, err)
	fd, err := db.Fingerprint(d)
	require.NoError(t, err)
	assert.NotEqual(t, fc, fd)

	require.NoError(t, a.Close())
	_, err = db.Fingerprint(a)
	assert.ErrorIs(t, err, db.ErrClosed)
}
