package memory

import (
	"bytes"

	"github.com/eigerco/levelbind/pkg/db"
)

var _ db.KVStore = (*Store)(nil)

// Store is an in-memory ordered key-value store with the observable
// semantics of the native LevelDB engine: bytewise key order, last write
// wins, snapshot iterators and closed-handle errors. Nothing touches disk.
//
// Store is not safe for concurrent use.
type Store struct {
	// kv is nil once the store is closed.
	kv entries
}

// New returns an open, empty store.
func New() *Store {
	return &Store{kv: entries{}}
}

func (s *Store) closed() bool {
	return s.kv == nil
}

// Put sets the value for key, replacing any previous value.
func (s *Store) Put(key, value []byte) error {
	if s.closed() {
		return db.ErrClosed
	}
	i, found := locate(s.kv, key)
	s.kv = s.kv.set(i, found, key, value)
	return nil
}

// Delete removes key if it is present.
func (s *Store) Delete(key []byte) error {
	if s.closed() {
		return db.ErrClosed
	}
	if i, found := locate(s.kv, key); found {
		s.kv = s.kv.remove(i)
	}
	return nil
}

func (s *Store) Get(key []byte) ([]byte, bool, error) {
	if s.closed() {
		return nil, false, db.ErrClosed
	}
	i, found := locate(s.kv, key)
	if !found {
		return nil, false, nil
	}
	return bytes.Clone(s.kv[i].value), true, nil
}

// NewIterator returns an unpositioned iterator over a copy of the current
// contents.
func (s *Store) NewIterator() (db.Iterator, error) {
	if s.closed() {
		return nil, db.ErrClosed
	}
	return newIterator(s.kv.clone()), nil
}

// Len returns the number of entries, or 0 once closed.
func (s *Store) Len() int {
	return len(s.kv)
}

// Close releases the contents. Closing an already closed store is a no-op.
func (s *Store) Close() error {
	s.kv = nil
	return nil
}
