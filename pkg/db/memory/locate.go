package memory

// locate returns the position of key in es. When key is present found is
// true and idx is its index; otherwise idx is the index of the first entry
// greater than key, which is len(es) when key is past every entry.
//
// The half-open interval [start, end) holds the candidates and shrinks on
// every step, so the loop runs at most log2(len(es))+1 times.
func locate(es entries, key Key) (idx int, found bool) {
	start, end := 0, len(es)
	for start < end {
		mid := int(uint(start+end) >> 1)
		switch c := es[mid].key.Compare(key); {
		case c == 0:
			return mid, true
		case c < 0:
			start = mid + 1
		default:
			end = mid
		}
	}
	return start, false
}
