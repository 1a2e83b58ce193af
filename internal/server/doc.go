// Package server provides HTTP server setup and initialization for the
// klipflow daemon.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (request IDs, CORS, rate limiting, recovery)
//   - Clipboard history store and bridge connections
//   - Blueprint archive with optional seeding
//   - Workflow runner with the built-in capability set
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Initialize logger (production or development)
//  3. Open the history store and clipboard bridge (both optional)
//  4. Open the generation tracker and blueprint archive
//  5. Build the workflow runner
//  6. Setup HTTP routes, WebSocket stream, and middleware
//  7. Start HTTP server
//  8. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
