// Package main is the entry point for the klipflow daemon.
//
// The daemon serves the blueprint orchestration engine over HTTP and
// WebSocket, backed by the clipboard history store, the clipboard
// bridge, and the generation archive.
//
// Architecture:
//
//	Clients (REST/WS) → klipflowd → Postgres (history store)
//	                             → Clipboard bridge (HTTP)
//	                             → Generation archive (disk)
//
// The daemon provides:
//   - REST API for workflow execution and blueprint archiving
//   - WebSocket streaming of step-by-step execution
//   - Clipboard history queries, clustering, and prediction
//   - Prometheus metrics and rate limiting
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./klipflowd -port 8700 -generations /var/lib/klipflow/generations
//
//	# Development mode (colored logs, debug level)
//	./klipflowd -dev -seed
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
