// Callisto is an adaptive policy control loop for alerting pipelines.
//
// It watches operational health metrics, recognizes degradation patterns,
// and proposes bounded adjustments to alerting policy parameters. Every
// proposal passes through impact simulation and safety validation before
// anything is applied, and every applied decision is recorded for audit
// and rollback.
//
// Usage:
//
//	# Start the control loop with default configuration
//	callisto run
//
//	# Start with custom configuration file
//	callisto run --config /path/to/config.yaml
//
//	# Run a one-shot dry-run evaluation against a metrics file
//	callisto evaluate --metrics metrics.json
//
//	# Validate a configuration file
//	callisto validate --config /path/to/config.yaml
//
//	# Show version information
//	callisto version
//
// For complete documentation, see: https://github.com/mercator-hq/callisto
package main

func main() {
	Execute()
}
