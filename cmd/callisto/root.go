package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - adaptive policy control loop",
	Long: `Callisto is an adaptive control loop that tunes alerting policy
parameters in response to observed operational health.

It watches a metrics feed, recognizes degradation patterns, and proposes
bounded parameter adjustments:
  - Alert scoring weight nudging
  - Escalation threshold adaptation
  - Suppression rule tuning
  - Persistence policy tuning

Every proposal is simulated and safety-validated before application, and
every applied decision is auditable and reversible.

For more information, visit: https://github.com/mercator-hq/callisto`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
