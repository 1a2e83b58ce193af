// Package main is the klipflow command line interface.
//
// The CLI runs blueprints locally without the daemon, inspects their
// structure, and manages the on-disk generation archive.
//
// Usage:
//
//	# Run a blueprint file with an initial state
//	klipflow run triage.kl --state input.json
//
//	# Override state keys inline
//	klipflow run triage.kl --set text=hello --set threshold=0.7
//
//	# Show the parsed structure
//	klipflow inspect triage.kl
//
//	# Archive lifecycle
//	klipflow archive put triage triage.kl
//	klipflow archive list
//	klipflow archive show triage 2
//	klipflow archive compare triage 1 2
package main
