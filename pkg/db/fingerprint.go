package db

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a blake2b-256 digest of the ordered contents of s. Two
// stores holding the same pairs have the same fingerprint regardless of the
// backend.
func Fingerprint(s KVStore) (sum [32]byte, err error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return sum, err
	}

	it, err := s.NewIterator()
	if err != nil {
		return sum, fmt.Errorf("fingerprint: %w", err)
	}
	defer it.Close() //nolint:errcheck // read-only iterator

	var lenBuf [binary.MaxVarintLen64]byte
	write := func(b []byte) {
		n := binary.PutUvarint(lenBuf[:], uint64(len(b)))
		h.Write(lenBuf[:n]) //nolint:errcheck // hash writes never fail
		h.Write(b)          //nolint:errcheck
	}

	if err := it.SeekToFirst(); err != nil {
		return sum, fmt.Errorf("fingerprint: %w", err)
	}
	for it.Valid() {
		key, err := it.Key()
		if err != nil {
			return sum, fmt.Errorf("fingerprint: %w", err)
		}
		value, err := it.Value()
		if err != nil {
			return sum, fmt.Errorf("fingerprint: %w", err)
		}
		write(key)
		write(value)
		if err := it.Next(); err != nil {
			return sum, fmt.Errorf("fingerprint: %w", err)
		}
	}

	copy(sum[:], h.Sum(nil))
	return sum, nil
}
