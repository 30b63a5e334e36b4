package db

import "fmt"

// Merge copies every pair of src into dst, overwriting keys present in both.
// With batched set, all writes reach dst through a single batch committed at
// the end; otherwise each pair is written as it is read. src is read through
// an iterator, so writes to src during the merge are not observed.
func Merge(dst, src KVStore, batched bool) (err error) {
	it, err := src.NewIterator()
	if err != nil {
		return fmt.Errorf("merge: source iterator: %w", err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("merge: close iterator: %w", cerr)
		}
	}()

	var w Writer = dst
	var batch Batch
	if batched {
		batch = dst.NewBatch()
		defer batch.Close() //nolint:errcheck // closing after commit is a no-op
		w = batch
	}

	if err := it.SeekToFirst(); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	for it.Valid() {
		key, err := it.Key()
		if err != nil {
			return fmt.Errorf("merge: read key: %w", err)
		}
		value, err := it.Value()
		if err != nil {
			return fmt.Errorf("merge: read value: %w", err)
		}
		if err := w.Put(key, value); err != nil {
			return fmt.Errorf("merge: put: %w", err)
		}
		if err := it.Next(); err != nil {
			return fmt.Errorf("merge: %w", err)
		}
	}

	if batched {
		if err := batch.Commit(); err != nil {
			return fmt.Errorf("merge: commit batch: %w", err)
		}
	}
	return nil
}
