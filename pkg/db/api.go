package db

// KVStore represents an ordered key-value storage interface providing basic
// operations for data manipulation and iteration. Keys are ordered bytewise.
//
// A KVStore is not safe for concurrent use; the embedding application must
// serialize access to a given store.
type KVStore interface {
	Writer
	// Get returns a copy of the value stored for key. found is false, and err
	// nil, when the key is absent.
	Get(key []byte) (value []byte, found bool, err error)
	NewBatch() Batch
	// NewIterator returns an unpositioned iterator over a point-in-time view
	// of the store. Writes made after this call are not visible through it.
	NewIterator() (Iterator, error)
	Close() error
}

type Writer interface {
	Put(key []byte, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error
}

// Batch represents an atomic batch of operations against a single store.
// All operations in a batch are performed atomically on Commit.
type Batch interface {
	Writer
	Commit() error
	Close() error
}

// Iterator provides bidirectional access over a snapshot of a store.
// Iterators must be closed after use.
type Iterator interface {
	// SeekToFirst positions at the first key. The iterator is valid after
	// this call iff the snapshot is not empty.
	SeekToFirst() error
	// SeekLast positions at the last key. The iterator is valid after this
	// call iff the snapshot is not empty.
	SeekLast() error
	// Seek positions at the first key that is at or past target.
	Seek(target []byte) error
	// Valid reports whether the iterator is positioned at an entry. A closed
	// iterator is never valid.
	Valid() bool
	// Next moves to the following entry. REQUIRES: Valid().
	Next() error
	// Prev moves to the preceding entry. REQUIRES: Valid().
	Prev() error
	Key() ([]byte, error)
	Value() ([]byte, error)
	Close() error
}
