package goleveldb

import (
	"bytes"

	pkgerrors "github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/eigerco/levelbind/pkg/db"
)

// Iterator wraps a goleveldb iterator, which reads from the snapshot taken
// when it was created.
type Iterator struct {
	store  *KVStore
	iter   iterator.Iterator
	closed bool
}

func (l *KVStore) NewIterator() (db.Iterator, error) {
	if l.closed {
		return nil, db.ErrClosed
	}
	it := &Iterator{store: l, iter: l.db.NewIterator(nil, &scanOpt)}
	l.iters[it] = struct{}{}
	return it, nil
}

func (it *Iterator) SeekToFirst() error {
	if it.closed {
		return db.ErrClosed
	}
	it.iter.First()
	return it.iterErr()
}

func (it *Iterator) SeekLast() error {
	if it.closed {
		return db.ErrClosed
	}
	it.iter.Last()
	return it.iterErr()
}

func (it *Iterator) Seek(target []byte) error {
	if it.closed {
		return db.ErrClosed
	}
	it.iter.Seek(target)
	return it.iterErr()
}

func (it *Iterator) Valid() bool {
	return !it.closed && it.iter.Valid()
}

func (it *Iterator) Next() error {
	if err := it.check(); err != nil {
		return err
	}
	it.iter.Next()
	return it.iterErr()
}

func (it *Iterator) Prev() error {
	if err := it.check(); err != nil {
		return err
	}
	it.iter.Prev()
	return it.iterErr()
}

func (it *Iterator) Key() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	return bytes.Clone(it.iter.Key()), nil
}

func (it *Iterator) Value() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	v := bytes.Clone(it.iter.Value())
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	delete(it.store.iters, it)
	it.iter.Release()
	return nil
}

func (it *Iterator) check() error {
	if it.closed {
		return db.ErrClosed
	}
	if !it.iter.Valid() {
		return db.ErrIteratorInvalid
	}
	return nil
}

func (it *Iterator) iterErr() error {
	return pkgerrors.Wrap(it.iter.Error(), "iterate")
}
