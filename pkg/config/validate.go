package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate validates the full configuration. It is called once at startup;
// configuration problems fail fast here rather than at tick time.
func Validate(cfg *Config) error {
	if err := cfg.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	switch cfg.Provider.Type {
	case "file":
		if cfg.Provider.Path == "" {
			return fmt.Errorf("provider: file provider requires a path")
		}
	case "none":
		// Metrics are supplied per call (dry runs, tests).
	default:
		return fmt.Errorf("provider: unsupported type %q", cfg.Provider.Type)
	}
	if cfg.Provider.HistoryLimit <= 0 {
		return fmt.Errorf("provider: history_limit must be positive, got %d", cfg.Provider.HistoryLimit)
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("provider: timeout must be positive, got %v", cfg.Provider.Timeout)
	}

	switch cfg.Store.Backend {
	case "memory", "none":
	case "sqlite":
		if cfg.Store.Path == "" {
			return fmt.Errorf("store: sqlite backend requires a path")
		}
	default:
		return fmt.Errorf("store: unsupported backend %q", cfg.Store.Backend)
	}

	if cfg.Scheduler.Enabled {
		if _, err := cron.ParseStandard(cfg.Scheduler.Schedule); err != nil {
			return fmt.Errorf("scheduler: invalid cron schedule %q: %w", cfg.Scheduler.Schedule, err)
		}
		if cfg.Scheduler.Window <= 0 {
			return fmt.Errorf("scheduler: window must be positive, got %d", cfg.Scheduler.Window)
		}
	}

	if cfg.Server.Enabled && cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server: listen_address is required")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry: invalid log level %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry: invalid log format %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}
