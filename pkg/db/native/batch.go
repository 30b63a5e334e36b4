package native

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/eigerco/levelbind/pkg/db"
)

// Batch wraps a leveldb_writebatch_t*, which copies keys and values as they
// are added.
type Batch struct {
	store *KVStore
	ptr   uintptr
	done  bool
}

func (s *KVStore) NewBatch() db.Batch {
	return &Batch{store: s, ptr: s.lib.writeBatchCreate()}
}

func (b *Batch) Put(key, value []byte) error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed {
		return db.ErrClosed
	}
	b.store.lib.writeBatchPut(b.ptr, bytesPtr(key), uintptr(len(key)), bytesPtr(value), uintptr(len(value)))
	keepAlive(key, value)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed {
		return db.ErrClosed
	}
	b.store.lib.writeBatchDelete(b.ptr, bytesPtr(key), uintptr(len(key)))
	keepAlive(key)
	return nil
}

func (b *Batch) Commit() error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed {
		return db.ErrClosed
	}
	lib := b.store.lib
	if err := lib.call(func(errptr uintptr) { lib.write(b.store.h.ptr, lib.wopts, b.ptr, errptr) }); err != nil {
		return pkgerrors.Wrap(err, "commit batch")
	}
	b.done = true
	return nil
}

func (b *Batch) Close() error {
	b.done = true
	if b.ptr != 0 {
		b.store.lib.writeBatchDestroy(b.ptr)
		b.ptr = 0
	}
	return nil
}
