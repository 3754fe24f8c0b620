package config

import (
	"time"

	"mercator-hq/callisto/pkg/control"
)

// Config is the root configuration structure for Callisto. It contains all
// configuration sections for the control engine, the metrics provider, the
// audit store, the tick scheduler, the operational HTTP server, and telemetry.
type Config struct {
	// Engine contains the control loop configuration: global safety rails and
	// per-domain thresholds. Not hot-reloadable.
	Engine control.Config `yaml:"engine"`

	// Provider contains configuration for the external metrics feed.
	Provider ProviderConfig `yaml:"provider"`

	// Store contains configuration for the decision audit store.
	Store StoreConfig `yaml:"store"`

	// Scheduler contains configuration for the periodic evaluation tick.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Server contains configuration for the operational HTTP server.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProviderConfig selects and configures the metrics provider.
type ProviderConfig struct {
	// Type selects the provider backend. Supported: "file".
	// Default: "file".
	Type string `yaml:"type"`

	// Path is the JSON metrics feed file for the file provider.
	Path string `yaml:"path"`

	// HistoryLimit bounds the provider's in-memory sample history.
	// Default: 288 (one day at 5-minute cadence).
	HistoryLimit int `yaml:"history_limit"`

	// Timeout bounds each provider call made by the scheduler.
	// Default: 5s.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig selects and configures the decision audit store.
type StoreConfig struct {
	// Backend selects the audit backend. Supported: "memory", "sqlite", "none".
	// Default: "memory".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file for the sqlite backend.
	Path string `yaml:"path"`
}

// SchedulerConfig configures the periodic evaluation tick.
type SchedulerConfig struct {
	// Enabled controls whether the scheduler runs at all. When false the
	// engine is driven only on demand through the HTTP surface.
	// Default: true.
	Enabled bool `yaml:"enabled"`

	// Schedule is the cron expression for evaluation ticks.
	// Default: "*/15 * * * *" (every 15 minutes).
	Schedule string `yaml:"schedule"`

	// Window is the history window size handed to the engine each tick.
	// Default: 10.
	Window int `yaml:"window"`

	// AutoApply controls whether valid proposals are applied automatically.
	// When false the scheduler only analyzes and logs; applications go through
	// the HTTP surface.
	// Default: false.
	AutoApply bool `yaml:"auto_apply"`
}

// ServerConfig configures the operational HTTP server.
type ServerConfig struct {
	// Enabled controls whether the HTTP server is started.
	// Default: true.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8595".
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 10s.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is the grace period for in-flight requests on shutdown.
	// Default: 5s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info".
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json".
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus registry.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "callisto".
	Namespace string `yaml:"namespace"`
}
