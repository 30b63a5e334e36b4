package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/eigerco/levelbind/pkg/db"
)

// Iterator reads from the point-in-time view pebble pins when the iterator
// is created.
type Iterator struct {
	store  *KVStore
	iter   *pebble.Iterator
	closed bool
}

func (p *KVStore) NewIterator() (db.Iterator, error) {
	if p.closed {
		return nil, db.ErrClosed
	}
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf(ErrInIteratorCreation, err)
	}
	it := &Iterator{store: p, iter: iter}
	p.iters[it] = struct{}{}
	return it, nil
}

func (it *Iterator) SeekToFirst() error {
	if it.closed {
		return db.ErrClosed
	}
	it.iter.First()
	return it.positionErr()
}

func (it *Iterator) SeekLast() error {
	if it.closed {
		return db.ErrClosed
	}
	it.iter.Last()
	return it.positionErr()
}

func (it *Iterator) Seek(target []byte) error {
	if it.closed {
		return db.ErrClosed
	}
	it.iter.SeekGE(target)
	return it.positionErr()
}

func (it *Iterator) Valid() bool {
	return !it.closed && it.iter.Valid()
}

func (it *Iterator) Next() error {
	if err := it.check(); err != nil {
		return err
	}
	it.iter.Next()
	return it.positionErr()
}

func (it *Iterator) Prev() error {
	if err := it.check(); err != nil {
		return err
	}
	it.iter.Prev()
	return it.positionErr()
}

func (it *Iterator) Key() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	key := it.iter.Key()
	result := make([]byte, len(key))
	copy(result, key)
	return result, nil
}

func (it *Iterator) Value() ([]byte, error) {
	if err := it.check(); err != nil {
		return nil, err
	}

	val, err := it.iter.ValueAndErr()
	if err != nil {
		return nil, fmt.Errorf(ErrIteratorValue, err)
	}

	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	delete(it.store.iters, it)
	return it.iter.Close()
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

func (it *Iterator) positionErr() error {
	if err := it.iter.Error(); err != nil {
		return fmt.Errorf(ErrIteratorPosition, err)
	}
	return nil
}
