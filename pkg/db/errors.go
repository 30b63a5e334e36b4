package db

import "errors"

var (
	// ErrClosed is returned by any store, iterator or batch operation invoked
	// after the handle was closed. Closing twice is not an error.
	ErrClosed = errors.New("kv-store: closed")
	// ErrIteratorInvalid is returned when Next, Prev, Key or Value is called
	// on an iterator that is not positioned at an entry.
	ErrIteratorInvalid = errors.New("kv-store: iterator is not valid")
	ErrBatchDone       = errors.New("kv-store: batch already committed or closed")
)
