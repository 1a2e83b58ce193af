// Package config provides 12-factor configuration management for the
// klipflow daemon.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Database: clipboard history store connection settings
//   - Clipboard: clipboard bridge client settings
//   - Engine: workflow engine limits
//   - Generations: blueprint generation archive location
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, DATABASE_URL, CLIPBOARD_BRIDGE_URL
//   - ENGINE_MAX_DEPTH, GENERATIONS_DIR
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
