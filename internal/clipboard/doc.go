// Package clipboard talks to the local clipboard bridge over HTTP. The
// bridge owns the OS clipboard and its change feed; this package wraps it
// with retries, rate limiting, and typed items, and exposes copy/paste as
// workflow capabilities.
package clipboard
