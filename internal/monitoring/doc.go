/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the klipflow
daemon, tracking HTTP requests, workflow runs, capability calls, clipboard
store queries, and system metrics.

# Features

- HTTP request metrics (latency, throughput)
- Workflow run metrics (duration, step outcomes, failures)
- Capability call metrics (duration, errors)
- Clipboard store metrics (query latency, errors)
- Bridge client metrics
- Generation archive metrics
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record workflow outcomes
	metrics.RecordRun("ok", duration)
	metrics.RecordStep("skipped")

	// Time operations
	timer := monitoring.NewTimer(metrics, "store", "entries")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
