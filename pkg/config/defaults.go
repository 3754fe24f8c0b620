package config

import (
	"time"

	"mercator-hq/callisto/pkg/control"
)

// Default values for configuration fields.
const (
	// Provider defaults
	DefaultProviderType         = "file"
	DefaultProviderPath         = "data/metrics.json"
	DefaultProviderHistoryLimit = 288
	DefaultProviderTimeout      = 5 * time.Second

	// Store defaults
	DefaultStoreBackend = "memory"
	DefaultStorePath    = "data/decisions.db"

	// Scheduler defaults
	DefaultSchedule        = "*/15 * * * *"
	DefaultSchedulerWindow = 10

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8595"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "callisto"
)

// ApplyDefaults fills unset configuration fields with default values.
func ApplyDefaults(cfg *Config) {
	// Engine defaults: an absent engine section means the standard domains
	// with conservative rails. A partially specified section keeps the
	// operator's values; validation catches inconsistencies.
	if cfg.Engine.Domains == nil {
		cfg.Engine = *control.DefaultConfig()
	} else {
		defaults := control.DefaultConfig()
		if cfg.Engine.Rails.MaxChangePercentage == 0 {
			cfg.Engine.Rails.MaxChangePercentage = defaults.Rails.MaxChangePercentage
		}
		if cfg.Engine.Rails.DefaultCooldown == 0 {
			cfg.Engine.Rails.DefaultCooldown = defaults.Rails.DefaultCooldown
		}
		if cfg.Engine.Rails.ConfidenceFloor == 0 {
			cfg.Engine.Rails.ConfidenceFloor = defaults.Rails.ConfidenceFloor
		}
		if cfg.Engine.Rails.MinimumSampleSize == 0 {
			cfg.Engine.Rails.MinimumSampleSize = defaults.Rails.MinimumSampleSize
		}
		if cfg.Engine.LedgerCapacity == 0 {
			cfg.Engine.LedgerCapacity = defaults.LedgerCapacity
		}
	}

	// Provider defaults
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = DefaultProviderType
	}
	if cfg.Provider.Path == "" {
		cfg.Provider.Path = DefaultProviderPath
	}
	if cfg.Provider.HistoryLimit == 0 {
		cfg.Provider.HistoryLimit = DefaultProviderHistoryLimit
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = DefaultProviderTimeout
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}

	// Scheduler defaults: enabled unless the operator set any scheduler field
	// while leaving enabled false.
	if !cfg.Scheduler.Enabled && cfg.Scheduler.Schedule == "" && cfg.Scheduler.Window == 0 {
		cfg.Scheduler.Enabled = true
	}
	if cfg.Scheduler.Schedule == "" {
		cfg.Scheduler.Schedule = DefaultSchedule
	}
	if cfg.Scheduler.Window == 0 {
		cfg.Scheduler.Window = DefaultSchedulerWindow
	}

	// Server defaults
	if !cfg.Server.Enabled && cfg.Server.ListenAddress == "" {
		cfg.Server.Enabled = true
	}
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if !cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Enabled = true
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
