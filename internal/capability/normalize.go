package capability

import (
	"fmt"
	"reflect"
)

// Text conforms a context value to its textual payload. Records arriving
// from workflow state may be plain strings, decoded mappings with a "text"
// field, or typed values; capabilities that operate on text call this once
// at their boundary instead of duck-typing the shape inline.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if inner, ok := t["text"]; ok {
			return Text(inner)
		}
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Records conforms a context value to a homogeneous list of records. A list
// value yields its elements; a single record yields a one-element list; nil
// yields nil. Capabilities that batch over their input declare the list
// shape by calling this.
func Records(v any) []any {
	if v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// IsList reports whether v is a sequence value rather than a single record.
func IsList(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(string); ok {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// First returns the value for the first key present in input, in the order
// given. Capabilities use it to accept their payload under a small set of
// aliased argument names.
func First(input map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := input[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Sole returns input's only value when the mapping has exactly one entry.
func Sole(input map[string]any) (any, bool) {
	if len(input) != 1 {
		return nil, false
	}
	for _, v := range input {
		return v, true
	}
	return nil, false
}
