package capability

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"record with text", map[string]any{"text": "payload"}, "payload"},
		{"record with nil text", map[string]any{"text": nil}, ""},
		{"record without text", map[string]any{"uuid": "abc"}, ""},
		{"nested record", map[string]any{"text": map[string]any{"text": "deep"}}, "deep"},
		{"number", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecords(t *testing.T) {
	if got := Records(nil); got != nil {
		t.Errorf("Records(nil) = %v, want nil", got)
	}

	list := []any{"a", "b"}
	if got := Records(list); !reflect.DeepEqual(got, list) {
		t.Errorf("Records(list) = %v, want %v", got, list)
	}

	typed := []string{"x", "y"}
	got := Records(typed)
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Records(typed slice) = %v", got)
	}

	single := Records("solo")
	if len(single) != 1 || single[0] != "solo" {
		t.Errorf("Records(single) = %v, want one-element list", single)
	}
}

func TestFirst(t *testing.T) {
	input := map[string]any{"entries": []any{"a"}, "text": "t"}

	v, ok := First(input, "items", "entries", "text")
	if !ok {
		t.Fatal("First should find entries")
	}
	if _, isList := v.([]any); !isList {
		t.Errorf("Expected entries value, got %v", v)
	}

	if _, ok := First(input, "missing"); ok {
		t.Error("First should miss absent keys")
	}
}

func TestSole(t *testing.T) {
	if v, ok := Sole(map[string]any{"only": 1}); !ok || v != 1 {
		t.Errorf("Sole single-entry = %v, %v", v, ok)
	}
	if _, ok := Sole(map[string]any{"a": 1, "b": 2}); ok {
		t.Error("Sole should reject multi-entry input")
	}
	if _, ok := Sole(map[string]any{}); ok {
		t.Error("Sole should reject empty input")
	}
}
