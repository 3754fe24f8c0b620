// Package control implements the adaptive policy control loop: a feedback-driven
// engine that watches operational health metrics, proposes bounded parameter
// adjustments across independent tuning domains, and only applies a change after
// it passes confidence, magnitude, and cooldown safety checks.
//
// # Architecture
//
// The engine composes seven small pieces:
//
//  1. Pattern Recognizer - classifies a metrics history window into trend,
//     volatility, and anomaly labels
//  2. Confidence Estimator - scores decision-worthiness from sample size,
//     variance, and historical success rate
//  3. Domain Evaluators - one pure function per tuning domain, emitting zero or
//     one proposed decision per tick
//  4. Impact Simulator - estimates predicted post-change metrics and a risk score
//  5. Safety Validator - rejects decisions violating global rails (magnitude caps,
//     human override, confidence floor) independent of domain
//  6. Cooldown Registry - per-domain last-applied timestamp blocking re-application
//     within a configured window
//  7. Decision Ledger - bounded per-domain history feeding outcome evaluation and
//     the confidence estimator
//
// # Evaluation Flow
//
//	Metrics snapshot + history
//	       ↓
//	Pattern Recognizer → Confidence Estimator
//	       ↓
//	For each domain (independent, fan-out):
//	  trigger fired and confidence sufficient?
//	    Yes → bounded adjustment → Impact Simulator → proposed Decision
//	       ↓
//	Analysis{decisions, patterns, confidence, risk assessment}
//
// Analysis never mutates engine state. State changes flow exclusively through
// ApplyDecision, which re-validates against fresh safety rails, enforces the
// per-domain cooldown, records the decision in the ledger, and stamps the
// cooldown registry.
//
// # Basic Usage
//
//	cfg := control.DefaultConfig()
//	eng, err := control.NewEngine(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analysis := eng.AnalyzeAndDecide(current, history, 10)
//	for _, d := range analysis.Decisions {
//	    result := eng.ApplyDecision(ctx, d, analysis.Confidence)
//	    if !result.Applied {
//	        log.Info("decision rejected", "reasons", result.Reasons)
//	    }
//	}
//
// # Thread Safety
//
// AnalyzeAndDecide reads only immutable inputs plus the historical success rate
// and may run concurrently with itself. ApplyDecision, RecordOutcome, and
// Rollback serialize on an engine-wide mutex guarding the ledger and cooldown
// registry. The engine has no internal timers; ticks are driven by the caller.
package control
