// Package metrics provides Prometheus metrics for the control loop.
//
// Metrics are registered on a private registry owned by the Collector, so
// multiple engines (or tests) in one process never collide on the default
// registry. The Handler method exposes the registry for scraping.
//
// Exposed series:
//   - callisto_evaluation_ticks_total: evaluation ticks by risk assessment
//   - callisto_decisions_proposed_total: proposals by domain
//   - callisto_decisions_applied_total: applications by domain
//   - callisto_decisions_rejected_total: rejections by domain and reason
//   - callisto_decision_confidence: confidence score distribution
//   - callisto_simulated_risk: simulated risk distribution by domain
package metrics
