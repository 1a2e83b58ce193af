// Package engine interprets blueprint documents: the workflow engine proper.
//
// An Engine owns one unit registry and one capability registry. Attach
// builds the unit registry from a loaded document; Execute drives the
// structural plane phase by phase, step by step, against a single mutable
// workflow state:
//
//	engine := engine.New(engine.WithCapabilities(shell.New()))
//	engine.Attach(doc)
//	final, err := engine.Execute(map[string]any{"text": "..."})
//
// Execution is strictly sequential and single-threaded. A step whose unit is
// not registered is skipped; a step whose capability is not registered runs
// with none bound. A capability failure or a recursion-limit breach aborts
// the run and discards the partial state.
//
// Composite units recurse: each wraps a private Engine with its own
// registries, loads its sub-document lazily on first use, runs it against a
// deep copy of the incoming context, and folds the sub-run's final state
// back as a single structured result.
//
// An Engine instance is not safe for concurrent Execute calls; separate
// instances are independent.
package engine
