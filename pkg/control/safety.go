package control

import "math"

// ValidationResult is the safety validator's verdict. A decision is valid iff
// Reasons is empty; every failing check contributes a reason so the caller
// sees all violations at once.
type ValidationResult struct {
	// Valid reports whether the decision passed every safety check.
	Valid bool `json:"valid"`

	// Reasons lists every violated check.
	Reasons []Reason `json:"reasons,omitempty"`
}

// SafetyValidator is the gatekeeper: it rejects decisions violating the
// global safety rails independent of domain logic. It reads the rails through
// a pointer so rail toggles (enable, human override) are seen immediately;
// the owner serializes toggles against validation.
type SafetyValidator struct {
	rails *SafetyRails
}

// NewSafetyValidator creates a validator over the given rails.
func NewSafetyValidator(rails *SafetyRails) *SafetyValidator {
	return &SafetyValidator{rails: rails}
}

// Validate checks a decision against the global rails. All checks run; none
// short-circuits, so an operator reading the rejection sees every violation.
func (v *SafetyValidator) Validate(decision *Decision, confidence float64) ValidationResult {
	var reasons []Reason

	if !v.rails.Enabled {
		reasons = append(reasons, ReasonRailsDisabled)
	}
	if v.rails.HumanOverride {
		reasons = append(reasons, ReasonHumanOverride)
	}
	if confidence < v.rails.ConfidenceFloor {
		reasons = append(reasons, ReasonInsufficientConfidence)
	}
	if math.Abs(decision.Action.Adjustment) > v.rails.MaxChangePercentage {
		reasons = append(reasons, ReasonAdjustmentTooLarge)
	}

	return ValidationResult{Valid: len(reasons) == 0, Reasons: reasons}
}
