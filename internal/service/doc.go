// Package service provides workflow run orchestration for klipflow.
//
// The Runner owns the engine option set shared by all entry points (HTTP,
// WebSocket, CLI): registered capabilities, recursion depth, and logging.
// Each run constructs a fresh engine, tags the run with a ULID, collects
// the step trace, and feeds run metrics to monitoring.
//
// Components:
//   - Runner: per-run engine construction and trace collection
//   - RunResult: run ID, final state, step trace, duration
//   - DefaultCapabilities: the side-effect capability set scoped to a root
//
// Example Usage:
//
//	runner := service.NewRunner(log, metrics,
//	    engine.WithCapabilities(service.DefaultCapabilities(root)...))
//	result, err := runner.RunFile("triage.kl", map[string]any{"text": input}, nil)
package service
