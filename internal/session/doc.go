// Package session stores and analyzes clipboard history. The store wraps
// the Postgres history table the clipboard daemon writes to; the analyzer
// derives content kinds, time clusters, and workflow predictions from the
// stored entries.
package session
