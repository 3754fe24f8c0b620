package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/control"
)

var evaluateFlags struct {
	metricsFile string
	window      int
	format      string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run a one-shot dry-run evaluation",
	Long: `Run one evaluation pass against a metrics file and print the proposals.

Nothing is applied. The metrics file holds either a single JSON metrics
object or a JSON array of samples, oldest first; with an array the last
sample is the current snapshot and the rest feed pattern recognition and
confidence estimation.

Examples:
  # Evaluate a single snapshot
  callisto evaluate --metrics metrics.json

  # Evaluate a sample history with a custom pattern window
  callisto evaluate --metrics history.json --window 20

  # Machine-readable output
  callisto evaluate --metrics metrics.json --format json`,
	RunE: evaluateOnce,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.metricsFile, "metrics", "m", "", "metrics file (JSON object or array)")
	evaluateCmd.Flags().IntVar(&evaluateFlags.window, "window", 0, "pattern recognition window (default from config)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json")
	evaluateCmd.MarkFlagRequired("metrics")
}

// readMetricsFile parses a feed file into a sample history, oldest first.
func readMetricsFile(path string) ([]control.Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}

	var history []control.Metrics
	if err := json.Unmarshal(data, &history); err != nil {
		var single control.Metrics
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("metrics file %q is neither a metrics object nor an array: %w", path, err)
		}
		history = []control.Metrics{single}
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("metrics file %q holds no samples", path)
	}
	return history, nil
}

func evaluateOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	history, err := readMetricsFile(evaluateFlags.metricsFile)
	if err != nil {
		return err
	}

	window := evaluateFlags.window
	if window <= 0 {
		window = cfg.Scheduler.Window
	}

	engine, err := control.NewEngine(&cfg.Engine, nil)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	current := history[len(history)-1]
	analysis := engine.AnalyzeAndDecide(current, history, window)

	if evaluateFlags.format == "json" {
		out, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Evaluated %d samples (window %d)\n", len(history), window)
	fmt.Printf("Trend: %s, volatility: %s\n", analysis.Patterns.Trend, analysis.Patterns.Volatility)
	if len(analysis.Patterns.Anomalies) > 0 {
		fmt.Printf("Anomalies: %v\n", analysis.Patterns.Anomalies)
	}
	fmt.Printf("Confidence: %.2f\n", analysis.Confidence)
	fmt.Printf("Risk assessment: %s\n", analysis.RiskAssessment)
	fmt.Println()

	if len(analysis.Decisions) == 0 {
		fmt.Println("No adjustments proposed.")
		return nil
	}

	fmt.Printf("Proposals (%d):\n", len(analysis.Decisions))
	for _, d := range analysis.Decisions {
		fmt.Printf("  %s: %s %+.4f (%s %.3f vs threshold %.3f)\n",
			d.Domain, d.Action.Type, d.Action.Adjustment,
			d.Trigger.Metric, d.Trigger.Value, d.Trigger.Threshold)
		fmt.Printf("    %s\n", d.Action.ExpectedImpact)
		if sim, ok := analysis.Simulations[d.ID]; ok {
			fmt.Printf("    simulated %s: %.4f, risk %.2f\n",
				sim.TargetMetric, sim.PredictedValue, sim.Risk)
			for _, rec := range sim.Recommendations {
				fmt.Printf("    advisory: %s\n", rec)
			}
		}
	}
	fmt.Println("\nDry run only; nothing was applied.")
	return nil
}
