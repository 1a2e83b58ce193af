package blueprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Sigil prefixes a space-format header line: ⫻name/dtype:place/index.
const Sigil = "⫻"

// Marker is a parsed space-format header. It names the payload that follows
// and where it sits in the surrounding exchange; the loader never interprets
// it beyond stripping it.
type Marker struct {
	Name  string
	DType string
	Place string
	Index int
}

// ParseMarker parses a single header line.
func ParseMarker(line string) (*Marker, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, Sigil) {
		return nil, fmt.Errorf("marker must start with %s", Sigil)
	}
	rest := strings.TrimPrefix(line, Sigil)

	head, tail, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, fmt.Errorf("marker %q: missing place segment", line)
	}
	name, dtype, ok := strings.Cut(head, "/")
	if !ok {
		return nil, fmt.Errorf("marker %q: missing dtype segment", line)
	}
	place, indexStr, ok := strings.Cut(tail, "/")
	if !ok {
		return nil, fmt.Errorf("marker %q: missing index segment", line)
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return nil, fmt.Errorf("marker %q: index: %w", line, err)
	}

	return &Marker{Name: name, DType: dtype, Place: place, Index: index}, nil
}

// String renders the marker back to its header-line form.
func (m *Marker) String() string {
	return fmt.Sprintf("%s%s/%s:%s/%d", Sigil, m.Name, m.DType, m.Place, m.Index)
}

// SplitMarker removes a leading marker line from text, returning the parsed
// marker and the remaining body. Absence of a marker is not an error (nil
// marker, unchanged text); a sigil-prefixed first line that fails to parse is
// still stripped, since the header is never semantically interpreted.
func SplitMarker(text string) (*Marker, string) {
	if !strings.HasPrefix(text, Sigil) {
		return nil, text
	}
	line, body, found := strings.Cut(text, "\n")
	if !found {
		body = ""
	}
	marker, err := ParseMarker(line)
	if err != nil {
		return nil, body
	}
	return marker, body
}
