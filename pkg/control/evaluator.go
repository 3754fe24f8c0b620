package control

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// evaluatorInput bundles the immutable per-tick inputs every evaluator sees.
// Evaluators read nothing else; in particular they never see another domain's
// state, so decisions across domains are independent and can be evaluated
// concurrently.
type evaluatorInput struct {
	metrics    Metrics
	patterns   Patterns
	confidence float64
	config     DomainConfig
}

// evaluator is a pure per-domain function emitting zero or one proposed
// decision for a tick.
type evaluator func(in evaluatorInput) *Decision

// evaluators is the closed dispatch table. Every domain returned by Domains()
// has exactly one entry; NewEngine fails fast if a configured domain lacks one.
var evaluators = map[Domain]evaluator{
	DomainWeightNudging:       evaluateWeightNudging,
	DomainThresholdAdaptation: evaluateThresholdAdaptation,
	DomainSuppressionTuning:   evaluateSuppressionTuning,
	DomainPersistencePolicy:   evaluatePersistencePolicy,
}

// boundedAdjustment implements the uniform adjustment shape shared by all
// domains: sign·min(maxMagnitude, scale·excess). The excess is how far the
// observed value overshoots (or undershoots) the trigger threshold.
func boundedAdjustment(sign, excess float64, cfg DomainConfig) float64 {
	magnitude := math.Min(cfg.MaxAdjustment, cfg.Scale*excess)
	return sign * magnitude
}

// evaluateWeightNudging fires when the repeated-alert noise rate exceeds its
// threshold and proposes a bounded negative weight nudge proportional to the
// excess.
func evaluateWeightNudging(in evaluatorInput) *Decision {
	if in.confidence < in.config.MinConfidence {
		return nil
	}
	if in.metrics.RENoiseRate <= in.config.TriggerThreshold {
		return nil
	}

	excess := in.metrics.RENoiseRate - in.config.TriggerThreshold
	adjustment := boundedAdjustment(-1, excess, in.config)

	return newDecision(DomainWeightNudging, Trigger{
		Metric:     "re_noise_rate",
		Value:      in.metrics.RENoiseRate,
		Threshold:  in.config.TriggerThreshold,
		Confidence: in.confidence,
	}, Action{
		Type:           "reduce_weight",
		Adjustment:     adjustment,
		ExpectedImpact: fmt.Sprintf("reduce repeated-alert noise by nudging scoring weights %.3f", adjustment),
	})
}

// evaluateThresholdAdaptation fires when escalation effectiveness drops below
// target and proposes a bounded positive threshold delta proportional to the
// shortfall.
func evaluateThresholdAdaptation(in evaluatorInput) *Decision {
	if in.confidence < in.config.MinConfidence {
		return nil
	}
	if in.metrics.EscalationEffectiveness >= in.config.TriggerThreshold {
		return nil
	}

	shortfall := in.config.TriggerThreshold - in.metrics.EscalationEffectiveness
	adjustment := boundedAdjustment(+1, shortfall, in.config)

	return newDecision(DomainThresholdAdaptation, Trigger{
		Metric:     "escalation_effectiveness",
		Value:      in.metrics.EscalationEffectiveness,
		Threshold:  in.config.TriggerThreshold,
		Confidence: in.confidence,
	}, Action{
		Type:           "raise_threshold",
		Adjustment:     adjustment,
		ExpectedImpact: fmt.Sprintf("raise escalation threshold by %.3f to cut low-value escalations", adjustment),
	})
}

// evaluateSuppressionTuning fires when the false positive rate exceeds its
// threshold and proposes a bounded negative suppression-aggressiveness delta.
func evaluateSuppressionTuning(in evaluatorInput) *Decision {
	if in.confidence < in.config.MinConfidence {
		return nil
	}
	if in.metrics.FalsePositiveRate <= in.config.TriggerThreshold {
		return nil
	}

	excess := in.metrics.FalsePositiveRate - in.config.TriggerThreshold
	adjustment := boundedAdjustment(-1, excess, in.config)

	return newDecision(DomainSuppressionTuning, Trigger{
		Metric:     "false_positive_rate",
		Value:      in.metrics.FalsePositiveRate,
		Threshold:  in.config.TriggerThreshold,
		Confidence: in.confidence,
	}, Action{
		Type:           "tighten_suppression",
		Adjustment:     adjustment,
		ExpectedImpact: fmt.Sprintf("tighten suppression by %.3f to cut false positives", adjustment),
	})
}

// evaluatePersistencePolicy fires when the failure ratio exceeds its threshold
// and proposes a bounded positive debounce/persistence increase.
func evaluatePersistencePolicy(in evaluatorInput) *Decision {
	if in.confidence < in.config.MinConfidence {
		return nil
	}
	if in.metrics.FailureRatio <= in.config.TriggerThreshold {
		return nil
	}

	excess := in.metrics.FailureRatio - in.config.TriggerThreshold
	adjustment := boundedAdjustment(+1, excess, in.config)

	return newDecision(DomainPersistencePolicy, Trigger{
		Metric:     "failure_ratio",
		Value:      in.metrics.FailureRatio,
		Threshold:  in.config.TriggerThreshold,
		Confidence: in.confidence,
	}, Action{
		Type:           "increase_persistence",
		Adjustment:     adjustment,
		ExpectedImpact: fmt.Sprintf("increase alert persistence window by %.3f to ride out transient failures", adjustment),
	})
}

func newDecision(domain Domain, trigger Trigger, action Action) *Decision {
	return &Decision{
		ID:        uuid.New().String(),
		Domain:    domain,
		Timestamp: time.Now().UTC(),
		Trigger:   trigger,
		Action:    action,
	}
}
