package memory

import (
	"bytes"

	"github.com/eigerco/levelbind/pkg/db"
)

var _ db.Iterator = (*Iterator)(nil)

// Cursor positions outside [0, len) are encoded as negative sentinels or as
// len itself.
const (
	posUnset  = -2
	posBefore = -1
)

// Iterator walks a snapshot taken when it was created. It owns the snapshot
// exclusively; later writes to the store are never visible through it.
type Iterator struct {
	kv     entries
	pos    int
	closed bool
}

func newIterator(snapshot entries) *Iterator {
	return &Iterator{kv: snapshot, pos: posUnset}
}

func (it *Iterator) SeekToFirst() error {
	if it.closed {
		return db.ErrClosed
	}
	it.pos = 0
	return nil
}

func (it *Iterator) SeekLast() error {
	if it.closed {
		return db.ErrClosed
	}
	// An empty snapshot lands on posBefore, which is invalid.
	it.pos = len(it.kv) - 1
	return nil
}

// Seek positions the iterator at the first key at or past target.
func (it *Iterator) Seek(target []byte) error {
	if it.closed {
		return db.ErrClosed
	}
	it.pos, _ = locate(it.kv, target)
	return nil
}

func (it *Iterator) Valid() bool {
	return !it.closed && it.pos >= 0 && it.pos < len(it.kv)
}

func (it *Iterator) Next() error {
	if err := it.check(); err != nil {
		return err
	}
	it.pos++
	return nil
}

func (it *Iterator) Prev() error {
	if err := it.check(); err != nil {
		return err
	}
	it.pos--
	return nil
}

func (it *Iterator) Key() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	return bytes.Clone(it.kv[it.pos].key), nil
}

func (it *Iterator) Value() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	return bytes.Clone(it.kv[it.pos].value), nil
}

// Close releases the snapshot. Closing twice is a no-op.
func (it *Iterator) Close() error {
	it.closed = true
	it.kv = nil
	it.pos = posUnset
	return nil
}

func (it *Iterator) check() error {
	if it.closed {
		return db.ErrClosed
	}
	if !it.Valid() {
		return db.ErrIteratorInvalid
	}
	return nil
}
