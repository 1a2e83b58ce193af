package session

import "errors"

// ErrEntryNotFound means the requested history entry does not exist.
var ErrEntryNotFound = errors.New("session: entry not found")
