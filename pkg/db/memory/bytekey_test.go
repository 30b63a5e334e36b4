package memory

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestKeyCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"dbMeta", "dbMeta", 0},
		{"db.farm", "dbMeta", -1},
		{"dbMeta", "db.farm", 1},
		{"dbMeta", "dbMetaverse", -1},
		{"dbMetaverse", "dbMeta", 1},
		{"", "", 0},
		{"", "a", -1},
		{"\xff", "\x01\x02", 1},
	}
	for _, tc := range tests {
		qt.Assert(t, qt.Equals(Key(tc.a).Compare(Key(tc.b)), tc.want), qt.Commentf("%q vs %q", tc.a, tc.b))
	}
}

func TestKeyCompareIsUnsigned(t *testing.T) {
	qt.Assert(t, qt.Equals(Key{0x80}.Compare(Key{0x7f}), 1))
	qt.Assert(t, qt.IsTrue(Key{}.Equal(Key(nil))))
}
