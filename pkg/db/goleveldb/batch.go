package goleveldb

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/eigerco/levelbind/pkg/db"
)

type Batch struct {
	store *KVStore
	batch leveldb.Batch
	done  bool
}

func (l *KVStore) NewBatch() db.Batch {
	return &Batch{store: l}
}

func (b *Batch) Put(key, value []byte) error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed {
		return db.ErrClosed
	}
	b.batch.Put(key, value)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed {
		return db.ErrClosed
	}
	b.batch.Delete(key)
	return nil
}

func (b *Batch) Commit() error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed {
		return db.ErrClosed
	}
	if err := b.store.db.Write(&b.batch, &writeOpt); err != nil {
		return pkgerrors.Wrap(err, "commit batch")
	}
	b.done = true
	b.batch.Reset()
	return nil
}

func (b *Batch) Close() error {
	b.done = true
	b.batch.Reset()
	return nil
}
