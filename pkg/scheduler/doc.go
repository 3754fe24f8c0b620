// Package scheduler drives periodic evaluation ticks of the control engine.
//
// Each tick pulls the current snapshot and history window from the metrics
// provider, runs one analysis pass, and records telemetry. With auto-apply
// enabled, proposals that pass safety validation are applied in the same
// tick; otherwise the scheduler only analyzes and logs, leaving application
// to the operational HTTP surface.
//
// Ticks are serialized. If an evaluation is still running when the next cron
// fire arrives, the new tick is skipped rather than queued.
package scheduler
