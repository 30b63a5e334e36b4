package memory

import (
	"bytes"
	"slices"
)

type entry struct {
	key   Key
	value []byte
}

// entries is kept strictly increasing by key with no duplicates. Values are
// never modified in place: an overwrite swaps in a new slice, so a shallow
// clone is an independent snapshot.
type entries []entry

// set overwrites the value at i when found, otherwise inserts a new entry
// at i. i must come from locate.
func (es entries) set(i int, found bool, key, value []byte) entries {
	v := bytes.Clone(nonNil(value))
	if found {
		es[i].value = v
		return es
	}
	return slices.Insert(es, i, entry{key: cloneKey(key), value: v})
}

func (es entries) remove(i int) entries {
	return slices.Delete(es, i, i+1)
}

func (es entries) clone() entries {
	return slices.Clone(es)
}
