// Package capability defines the named-operation boundary of the workflow
// engine.
//
// A Capability is an opaque function a workflow step may invoke: the engine
// hands it the step's resolved input context and stores whatever it returns.
// The engine never inspects a capability's internals.
//
// The package also provides:
//   - Registry: name to implementation lookup, last registration wins
//   - Func: adapter for registering plain functions as capabilities
//   - Text / Records: input-shape normalization at the capability boundary
//
// Example Usage:
//
//	reg := capability.NewRegistry()
//	reg.Register(classify.New())
//	cap, err := reg.Get("content-classification")
package capability
