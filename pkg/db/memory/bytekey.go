package memory

import "bytes"

// Key is an immutable byte sequence ordered bytewise: bytes are compared as
// unsigned values over the common prefix and, when that prefix is equal, the
// shorter key is smaller.
type Key []byte

// Compare returns -1, 0 or +1 when k is less than, equal to or greater than
// other.
func (k Key) Compare(other Key) int {
	return bytes.Compare(k, other)
}

func (k Key) Equal(other Key) bool {
	return bytes.Equal(k, other)
}

// cloneKey copies b so the store never aliases caller-owned memory.
func cloneKey(b []byte) Key {
	return Key(bytes.Clone(nonNil(b)))
}

// nonNil maps a nil slice to an empty one; an empty key or value is a
// legitimate entry and must read back as a non-nil slice.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
