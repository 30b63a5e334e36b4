package pebble

import (
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"github.com/eigerco/levelbind/pkg/db"
)

type Batch struct {
	store *KVStore
	// batch is nil when the store was already closed at creation.
	batch    *pebble.Batch
	done     atomic.Bool
	released atomic.Bool
}

func (p *KVStore) NewBatch() db.Batch {
	b := &Batch{store: p}
	if !p.closed {
		b.batch = p.db.NewBatch()
	}
	return b
}

func (b *Batch) Put(key, value []byte) error {
	if b.done.Load() {
		return db.ErrBatchDone
	}
	if b.store.closed || b.batch == nil {
		return db.ErrClosed
	}
	return b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) error {
	if b.done.Load() {
		return db.ErrBatchDone
	}
	if b.store.closed || b.batch == nil {
		return db.ErrClosed
	}
	return b.batch.Delete(key, nil)
}

func (b *Batch) Commit() error {
	if b.done.Load() {
		return db.ErrBatchDone
	}
	if b.store.closed || b.batch == nil {
		return db.ErrClosed
	}
	if err := b.batch.Commit(pebble.Sync); err != nil {
		return err
	}
	b.done.Store(true)
	return nil
}

func (b *Batch) Close() error {
	b.done.Store(true)
	if !b.released.CompareAndSwap(false, true) || b.batch == nil {
		return nil
	}
	return b.batch.Close()
}
