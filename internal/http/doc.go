// Package http provides HTTP handlers for the klipflow REST API.
//
// This package implements all HTTP endpoints using the Gin framework:
// clipboard history, workflow prediction, blueprint execution, and the
// generational blueprint archive.
//
// Endpoints:
//   - Health: / and /health
//   - History: /api/entries, /api/entries/:uuid, star and touch actions
//   - Analysis: /api/prediction, /api/clusters
//   - Workflows: /api/workflows/execute
//   - Archive: /api/blueprints, /api/blueprints/:name and sub-routes
//   - Clipboard: /api/clipboard/current
//   - Stats: /api/stats
//
// Errors use the RFC 7807 problem shape; typed errors from the engine,
// store, and archive map onto 4xx statuses in respondError.
package http
