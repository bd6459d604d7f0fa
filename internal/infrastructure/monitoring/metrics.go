package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deskshell"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Logging metrics
	LogRecords      *prometheus.CounterVec
	LogSinkFailures *prometheus.CounterVec
	LogLevel        *prometheus.GaugeVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Shell metrics
	TrayEvents *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for JSON responses
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	CommandCalls      int64   `json:"command_calls"`
	CommandErrors     int64   `json:"command_errors"`
	SinkFailures      int64   `json:"sink_failures"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector with its own registry, so several
// servers (or tests) in one process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		LogRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "log_records_total",
				Help:      "Log records delivered per sink",
			},
			[]string{"sink", "level"},
		),
		LogSinkFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "log_sink_failures_total",
				Help:      "Log records a sink failed to accept",
			},
			[]string{"sink", "level"},
		),
		LogLevel: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "log_level",
				Help:      "Current severity gate (1 for the active level)",
			},
			[]string{"level"},
		),

		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_calls_total",
				Help:      "Total number of command invocations",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
			},
			[]string{"command"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active IPC WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of IPC WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		TrayEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tray_events_total",
				Help:      "Tray icon events dispatched to the event loop",
			},
			[]string{"kind"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Shell uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordDelivered counts a record accepted by a sink
func (m *Metrics) RecordDelivered(sink, level string) {
	m.LogRecords.WithLabelValues(sink, level).Inc()
}

// RecordFailed counts a record a sink rejected
func (m *Metrics) RecordFailed(sink, level string, _ error) {
	m.LogSinkFailures.WithLabelValues(sink, level).Inc()

	m.mu.Lock()
	m.snapshot.SinkFailures++
	m.mu.Unlock()
}

// LevelChanged marks level as the active severity gate
func (m *Metrics) LevelChanged(level string) {
	m.LogLevel.Reset()
	m.LogLevel.WithLabelValues(level).Set(1)
}

// CommandExecuted records a command invocation
func (m *Metrics) CommandExecuted(name, status string, duration time.Duration) {
	m.CommandCalls.WithLabelValues(name, status).Inc()
	if duration > 0 {
		m.CommandDuration.WithLabelValues(name).Observe(duration.Seconds())
	}

	m.mu.Lock()
	m.snapshot.CommandCalls++
	if status != "success" {
		m.snapshot.CommandErrors++
	}
	m.mu.Unlock()
}

// TrayEvent counts a tray event
func (m *Metrics) TrayEvent(kind string) {
	m.TrayEvents.WithLabelValues(kind).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
