package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults, and run full validation.

Validation covers the engine section (safety rails and per-domain bounds),
the provider and store backends, the cron schedule, and telemetry settings.

Examples:
  # Validate the default config file
  callisto validate

  # Validate a specific file
  callisto validate --config /etc/callisto/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  engine: %d domains, max change %.0f%%, confidence floor %.2f\n",
		len(cfg.Engine.Domains), cfg.Engine.Rails.MaxChangePercentage*100, cfg.Engine.Rails.ConfidenceFloor)
	fmt.Printf("  provider: %s\n", cfg.Provider.Type)
	fmt.Printf("  store: %s\n", cfg.Store.Backend)
	if cfg.Scheduler.Enabled {
		fmt.Printf("  schedule: %s (auto-apply %v)\n", cfg.Scheduler.Schedule, cfg.Scheduler.AutoApply)
	} else {
		fmt.Println("  schedule: disabled")
	}
	return nil
}
