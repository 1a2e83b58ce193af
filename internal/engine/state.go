package engine

// State is the shared mutable key-value store threaded through one Execute
// call. Values are arbitrary: text, lists, structured records.
type State map[string]any

// Clone deep-copies s. Nested mappings and sequences are copied element by
// element so no references are shared between a run and its caller, or
// between a composite sub-run and its parent. A nil state clones to an
// empty one.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case State:
		return map[string]any(t.Clone())
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = cloneValue(e)
		}
		return l
	case []string:
		l := make([]string, len(t))
		copy(l, t)
		return l
	default:
		return v
	}
}
