package control

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid control configuration")

	// ErrUnknownDomain indicates a decision references a domain the engine was
	// not configured with.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrDecisionNotFound indicates a ledger lookup by ID found nothing.
	ErrDecisionNotFound = errors.New("decision not found")

	// ErrOutcomeAlreadyRecorded indicates a decision already carries an outcome.
	ErrOutcomeAlreadyRecorded = errors.New("outcome already recorded")
)

// Reason is a machine-readable explanation for a rejected decision. Rejections
// are expected business conditions and are always reported as data, never as
// errors.
type Reason string

const (
	// ReasonRailsDisabled - the global safety rails are switched off.
	ReasonRailsDisabled Reason = "safety_rails_disabled"

	// ReasonHumanOverride - the human override kill switch is set.
	ReasonHumanOverride Reason = "human_override_active"

	// ReasonInsufficientConfidence - confidence is below the configured floor.
	ReasonInsufficientConfidence Reason = "insufficient_confidence"

	// ReasonAdjustmentTooLarge - |adjustment| exceeds the global magnitude cap.
	ReasonAdjustmentTooLarge Reason = "adjustment_too_large"

	// ReasonCooldownActive - the domain's cooldown window has not elapsed.
	ReasonCooldownActive Reason = "cooldown_active"
)

// DecisionError wraps failures in decision bookkeeping (ledger lookups,
// outcome recording); it is not used for safety rejections.
type DecisionError struct {
	DecisionID string
	Op         string
	Cause      error
}

// Error returns the error message.
func (e *DecisionError) Error() string {
	return fmt.Sprintf("decision %s: %s: %v", e.DecisionID, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DecisionError) Unwrap() error {
	return e.Cause
}
