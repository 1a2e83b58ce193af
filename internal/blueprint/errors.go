package blueprint

import "fmt"

// ParseError reports a malformed blueprint document. Loading is atomic: a
// ParseError means no partial document was produced.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("blueprint: %s: %v", e.Reason, e.Err)
	}
	return "blueprint: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(reason string) error {
	return &ParseError{Reason: reason}
}

func parseErrf(format string, args ...any) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

func parseWrap(reason string, err error) error {
	return &ParseError{Reason: reason, Err: err}
}
