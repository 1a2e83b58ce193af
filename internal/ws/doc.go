// Package ws provides WebSocket handling for streaming workflow runs.
//
// This package implements WebSocket communication for live execution,
// forwarding each step record to the client as the engine produces it.
//
// Features:
//   - Step-by-step execution streaming
//   - Execution from inline blueprint text or the archive by name
//   - Automatic connection upgrade from HTTP
//   - Error handling and recovery
//
// Message Types (Client → Server):
//   - execute: Run a blueprint with an optional initial state
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Connection established
//   - run_start: Execution started
//   - step: One step record (phase, step, unit, capability, status)
//   - complete: Final state with run ID and timing
//   - error: Error occurred
//   - pong: Keep-alive reply
//
// Example Usage:
//
//	handler := ws.NewHandler(runner, archive, metrics, log)
//	router.GET("/stream", handler.HandleConnection)
package ws
