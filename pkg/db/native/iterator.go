package native

import (
	"unsafe"

	pkgerrors "github.com/pkg/errors"

	"github.com/eigerco/levelbind/pkg/db"
)

// Iterator wraps a leveldb_iterator_t*, which reads from an implicit snapshot
// taken at creation.
type Iterator struct {
	store  *KVStore
	ptr    uintptr
	closed bool
}

func (s *KVStore) NewIterator() (db.Iterator, error) {
	if s.closed {
		return nil, db.ErrClosed
	}
	it := &Iterator{store: s, ptr: s.lib.createIterator(s.h.ptr, s.lib.ropts)}
	s.iters[it] = struct{}{}
	return it, nil
}

func (it *Iterator) lib() *Library {
	return it.store.lib
}

func (it *Iterator) SeekToFirst() error {
	if it.closed {
		return db.ErrClosed
	}
	it.lib().iterSeekToFirst(it.ptr)
	return it.iterErr()
}

func (it *Iterator) SeekLast() error {
	if it.closed {
		return db.ErrClosed
	}
	it.lib().iterSeekToLast(it.ptr)
	return it.iterErr()
}

func (it *Iterator) Seek(target []byte) error {
	if it.closed {
		return db.ErrClosed
	}
	it.lib().iterSeek(it.ptr, bytesPtr(target), uintptr(len(target)))
	keepAlive(target)
	return it.iterErr()
}

func (it *Iterator) Valid() bool {
	return !it.closed && it.lib().iterValid(it.ptr) != 0
}

func (it *Iterator) Next() error {
	if err := it.check(); err != nil {
		return err
	}
	it.lib().iterNext(it.ptr)
	return it.iterErr()
}

func (it *Iterator) Prev() error {
	if err := it.check(); err != nil {
		return err
	}
	it.lib().iterPrev(it.ptr)
	return it.iterErr()
}

// Key copies the current key; the engine's buffer is only valid until the
// iterator moves.
func (it *Iterator) Key() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	n := new(uintptr)
	p := it.lib().iterKey(it.ptr, uintptr(unsafe.Pointer(n)))
	return goBytes(p, *n), nil
}

func (it *Iterator) Value() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	n := new(uintptr)
	p := it.lib().iterValue(it.ptr, uintptr(unsafe.Pointer(n)))
	return goBytes(p, *n), nil
}

func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	delete(it.store.iters, it)
	it.lib().iterDestroy(it.ptr)
	it.ptr = 0
	return nil
}

func (it *Iterator) check() error {
	if it.closed {
		return db.ErrClosed
	}
	if it.lib().iterValid(it.ptr) == 0 {
		return db.ErrIteratorInvalid
	}
	return nil
}

func (it *Iterator) iterErr() error {
	err := it.lib().call(func(errptr uintptr) { it.lib().iterGetError(it.ptr, errptr) })
	return pkgerrors.Wrap(err, "iterate")
}
