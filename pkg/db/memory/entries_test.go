package memory

func (es entries) keys() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = string(e.key)
	}
	return out
}
