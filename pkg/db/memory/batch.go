package memory

import (
	"bytes"

	"github.com/eigerco/levelbind/pkg/db"
)

type op struct {
	key    []byte
	value  []byte
	delete bool
}

// Batch buffers writes and applies them to its store in order on Commit.
type Batch struct {
	store *Store
	ops   []op
	done  bool
}

func (s *Store) NewBatch() db.Batch {
	return &Batch{store: s}
}

func (b *Batch) Put(key, value []byte) error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed() {
		return db.ErrClosed
	}
	b.ops = append(b.ops, op{key: bytes.Clone(key), value: bytes.Clone(value)})
	return nil
}

func (b *Batch) Delete(key []byte) error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed() {
		return db.ErrClosed
	}
	b.ops = append(b.ops, op{key: bytes.Clone(key), delete: true})
	return nil
}

// Commit applies every buffered operation. Nothing is applied when the store
// is closed.
func (b *Batch) Commit() error {
	if b.done {
		return db.ErrBatchDone
	}
	if b.store.closed() {
		return db.ErrClosed
	}
	for _, o := range b.ops {
		i, found := locate(b.store.kv, o.key)
		switch {
		case o.delete && found:
			b.store.kv = b.store.kv.remove(i)
		case !o.delete:
			b.store.kv = b.store.kv.set(i, found, o.key, o.value)
		}
	}
	b.done = true
	b.ops = nil
	return nil
}

func (b *Batch) Close() error {
	b.done = true
	b.ops = nil
	return nil
}
