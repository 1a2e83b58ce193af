package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Workflow metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	StepsTotal  *prometheus.CounterVec

	// Capability metrics
	CapabilityCalls    *prometheus.CounterVec
	CapabilityDuration *prometheus.HistogramVec

	// Clipboard store metrics
	StoreQueries  *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec

	// Bridge client metrics
	BridgeCalls *prometheus.CounterVec

	// Generation archive metrics
	GenerationsCurrent prometheus.Gauge
	BlueprintsArchived prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests int64
	TotalErrors   int64
	RunsExecuted  int64
	RunsFailed    int64
	TotalDuration float64 // sum of all request durations
	RequestCount  int64   // count for averaging
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klipflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Workflow metrics
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_runs_total",
				Help: "Total number of workflow runs",
			},
			[]string{"status"},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "klipflow_run_duration_seconds",
				Help:    "Workflow run duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
		),
		StepsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_steps_total",
				Help: "Total number of workflow steps dispatched",
			},
			[]string{"status"},
		),

		// Capability metrics
		CapabilityCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_capability_calls_total",
				Help: "Total number of capability calls",
			},
			[]string{"capability", "status"},
		),
		CapabilityDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klipflow_capability_duration_seconds",
				Help:    "Capability call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"capability"},
		),

		// Clipboard store metrics
		StoreQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_store_queries_total",
				Help: "Total number of clipboard store queries",
			},
			[]string{"operation", "status"},
		),
		StoreDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klipflow_store_query_duration_seconds",
				Help:    "Clipboard store query duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),

		// Bridge client metrics
		BridgeCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_bridge_calls_total",
				Help: "Total number of clipboard bridge calls",
			},
			[]string{"endpoint", "status"},
		),

		// Generation archive metrics
		GenerationsCurrent: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "klipflow_generations_current",
				Help: "Highest generation number in the archive",
			},
		),
		BlueprintsArchived: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "klipflow_blueprints_archived_total",
				Help: "Total number of blueprints written to the archive",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "klipflow_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klipflow_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "klipflow_uptime_seconds",
				Help: "Daemon uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordRun records a completed workflow run
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.RunsExecuted++
	if status != "ok" {
		m.snapshot.RunsFailed++
	}
	m.mu.Unlock()
}

// RecordStep records a dispatched workflow step
func (m *Metrics) RecordStep(status string) {
	m.StepsTotal.WithLabelValues(status).Inc()
}

// RecordCapabilityCall records a capability call
func (m *Metrics) RecordCapabilityCall(capability, status string, duration time.Duration) {
	m.CapabilityCalls.WithLabelValues(capability, status).Inc()
	m.CapabilityDuration.WithLabelValues(capability).Observe(duration.Seconds())
}

// RecordStoreQuery records a clipboard store query
func (m *Metrics) RecordStoreQuery(operation, status string, duration time.Duration) {
	m.StoreQueries.WithLabelValues(operation, status).Inc()
	m.StoreDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBridgeCall records a clipboard bridge call
func (m *Metrics) RecordBridgeCall(endpoint, status string) {
	m.BridgeCalls.WithLabelValues(endpoint, status).Inc()
}

// SetGenerationsCurrent sets the highest archive generation number
func (m *Metrics) SetGenerationsCurrent(generation int) {
	m.GenerationsCurrent.Set(float64(generation))
}

// IncBlueprintsArchived increments the archived blueprints counter
func (m *Metrics) IncBlueprintsArchived() {
	m.BlueprintsArchived.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns the current counters for the JSON stats endpoint.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// UptimeSeconds returns the time elapsed since the collector was created.
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
