package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/control"
	"mercator-hq/callisto/pkg/control/provider"
	"mercator-hq/callisto/pkg/control/store"
	"mercator-hq/callisto/pkg/scheduler"
	"mercator-hq/callisto/pkg/server"
	"mercator-hq/callisto/pkg/telemetry/logging"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the control loop",
	Long: `Start the Callisto control loop with the specified configuration.

The loop follows the configured metrics feed, evaluates on the configured
schedule, and serves the operational HTTP API for manual evaluation,
application, and rollback.

Examples:
  # Start with default config
  callisto run

  # Start with custom config
  callisto run --config /etc/callisto/config.yaml

  # Override listen address
  callisto run --listen 0.0.0.0:8595

  # Validate config without starting
  callisto run --dry-run`,
	RunE: runLoop,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

// loadConfig loads the configured file, falling back to built-in defaults
// when the default config path does not exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if cfgFile != "config.yaml" {
			return nil, fmt.Errorf("config file %q not found", cfgFile)
		}
		return config.Default(), nil
	}
	return config.LoadWithEnvOverrides(cfgFile)
}

func runLoop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Callisto v%s\n", version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	engine, err := control.NewEngine(&cfg.Engine, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	// Audit store
	var auditStore store.Store
	switch cfg.Store.Backend {
	case "sqlite":
		auditStore, err = store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
	case "memory":
		auditStore = store.NewMemory()
	case "none", "":
		// Decisions live only in the engine's in-memory ledger.
	default:
		return fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
	if auditStore != nil {
		defer auditStore.Close()
		engine.AttachRecorder(auditStore)
		fmt.Printf("✓ Audit store initialized (%s)\n", cfg.Store.Backend)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics provider
	var feed provider.Provider
	switch cfg.Provider.Type {
	case "file":
		fp, err := provider.NewFileProvider(&provider.FileProviderConfig{
			Path:         cfg.Provider.Path,
			HistoryLimit: cfg.Provider.HistoryLimit,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		if err := fp.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics provider: %w", err)
		}
		defer fp.Close()
		feed = fp
		fmt.Printf("✓ Metrics feed: %s\n", cfg.Provider.Path)
	case "none":
		slog.Warn("no metrics provider configured, evaluations require inline metrics")
	default:
		return fmt.Errorf("unsupported provider type: %s", cfg.Provider.Type)
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics)
	}

	// Scheduled evaluation
	if feed != nil && cfg.Scheduler.Enabled {
		sched := scheduler.New(cfg, engine, feed, collector, logger)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
		if next := sched.NextRun(); next != nil {
			fmt.Printf("✓ Evaluation schedule: %s (next run %s)\n",
				cfg.Scheduler.Schedule, next.Format("15:04:05"))
		}
	}

	// Operational HTTP server
	errChan := make(chan error, 1)
	if cfg.Server.Enabled {
		srv := server.New(cfg, engine, feed, collector, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				errChan <- fmt.Errorf("server error: %w", err)
			}
		}()
		fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
		fmt.Printf("✓ Status endpoint: http://%s/status\n", cfg.Server.ListenAddress)
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()
		fmt.Println("✓ Stopped")
		return nil
	}
}
