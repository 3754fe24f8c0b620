package control

import (
	"time"
)

// Domain identifies an independent tuning axis. Each domain owns its own
// trigger condition, adjustment cap, and cooldown window; domains never
// interact directly, which keeps their decisions independently applicable.
type Domain string

const (
	// DomainWeightNudging nudges alert scoring weights down when repeated-alert
	// noise climbs.
	DomainWeightNudging Domain = "weight_nudging"

	// DomainThresholdAdaptation raises escalation thresholds when escalation
	// effectiveness falls below target.
	DomainThresholdAdaptation Domain = "threshold_adaptation"

	// DomainSuppressionTuning tightens suppression when the false positive rate
	// exceeds its threshold.
	DomainSuppressionTuning Domain = "suppression_tuning"

	// DomainPersistencePolicy increases debounce/persistence windows when the
	// failure ratio climbs.
	DomainPersistencePolicy Domain = "persistence_policy"
)

// Domains returns all known domains in stable order.
func Domains() []Domain {
	return []Domain{
		DomainWeightNudging,
		DomainThresholdAdaptation,
		DomainSuppressionTuning,
		DomainPersistencePolicy,
	}
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	switch d {
	case DomainWeightNudging, DomainThresholdAdaptation, DomainSuppressionTuning, DomainPersistencePolicy:
		return true
	}
	return false
}

// Metrics is an immutable snapshot of named operational health signals.
// One snapshot is produced externally per evaluation tick; the engine never
// fabricates or mutates metric values.
type Metrics struct {
	// RENoiseRate is the fraction of alerts that re-fire without new signal.
	RENoiseRate float64 `json:"re_noise_rate" yaml:"re_noise_rate"`

	// FailureRatio is the fraction of actions that failed in the window.
	FailureRatio float64 `json:"failure_ratio" yaml:"failure_ratio"`

	// EscalationEffectiveness is the fraction of escalations that were useful.
	EscalationEffectiveness float64 `json:"escalation_effectiveness" yaml:"escalation_effectiveness"`

	// SuppressionAccuracy is the fraction of suppressed alerts that were
	// correctly suppressed.
	SuppressionAccuracy float64 `json:"suppression_accuracy" yaml:"suppression_accuracy"`

	// SystemStability is a composite [0,1] stability score.
	SystemStability float64 `json:"system_stability" yaml:"system_stability"`

	// AlertVolume is the absolute alert count in the window.
	AlertVolume float64 `json:"alert_volume" yaml:"alert_volume"`

	// FalsePositiveRate is the fraction of alerts judged false positives.
	FalsePositiveRate float64 `json:"false_positive_rate" yaml:"false_positive_rate"`

	// MeanTimeToAck is the mean acknowledgement latency in seconds.
	MeanTimeToAck float64 `json:"mean_time_to_ack" yaml:"mean_time_to_ack"`
}

// Trend labels the direction of the primary signal over the history window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
)

// Volatility labels the variance band of the primary signal.
type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

// Anomaly is a label emitted when the latest sample crosses a fixed absolute
// threshold for one metric. Anomalies are independent flags; several may fire
// on the same tick.
type Anomaly string

const (
	AnomalyHighNoise          Anomaly = "high_re_noise_rate"
	AnomalyHighFailureRatio   Anomaly = "high_failure_ratio"
	AnomalyLowEscalationValue Anomaly = "low_escalation_effectiveness"
	AnomalyHighFalsePositives Anomaly = "high_false_positive_rate"
)

// Patterns is the output of the pattern recognizer for one history window.
type Patterns struct {
	// Trend is the direction of the primary signal (improving, degrading, stable).
	Trend Trend `json:"trend"`

	// Volatility is the variance band of the primary signal.
	Volatility Volatility `json:"volatility"`

	// Anomalies lists threshold crossings observed in the latest sample.
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Trigger records which metric, threshold, and confidence fired a decision.
type Trigger struct {
	// Metric is the name of the signal that fired the trigger.
	Metric string `json:"metric"`

	// Value is the observed value of the metric at evaluation time.
	Value float64 `json:"value"`

	// Threshold is the configured trigger threshold the value was compared to.
	Threshold float64 `json:"threshold"`

	// Confidence is the confidence score at evaluation time.
	Confidence float64 `json:"confidence"`
}

// Action describes the proposed parameter change.
type Action struct {
	// Type names the kind of change (e.g. "reduce_weight", "raise_threshold").
	Type string `json:"type"`

	// Adjustment is the bounded signed delta to apply to the target parameter.
	Adjustment float64 `json:"adjustment"`

	// ExpectedImpact is a human-readable summary of the intended effect.
	ExpectedImpact string `json:"expected_impact"`
}

// Outcome records what happened after a decision was applied. It is attached
// to a ledger entry once, after the measurement window elapses; the decision
// itself is never otherwise mutated.
type Outcome struct {
	// MeasuredAt is when the outcome was evaluated.
	MeasuredAt time.Time `json:"measured_at"`

	// WindowMinutes is the measurement window length.
	WindowMinutes int `json:"window_minutes"`

	// Success reports whether the adjustment moved its target metric the
	// intended way.
	Success bool `json:"success"`

	// ActualImpact is the observed delta on the target metric.
	ActualImpact float64 `json:"actual_impact"`

	// RollbackRequired is set when the change made things worse and a
	// compensating decision should be issued.
	RollbackRequired bool `json:"rollback_required"`
}

// Decision is a proposed or applied parameter change. A decision is immutable
// once recorded in the ledger; only its Outcome is attached later.
type Decision struct {
	// ID uniquely identifies the decision.
	ID string `json:"id"`

	// Domain is the tuning axis this decision belongs to.
	Domain Domain `json:"domain"`

	// Timestamp is when the decision was proposed.
	Timestamp time.Time `json:"timestamp"`

	// Trigger records what fired the decision.
	Trigger Trigger `json:"trigger"`

	// Action is the proposed change.
	Action Action `json:"action"`

	// PreviousValue is the parameter value before this decision, captured so a
	// compensating rollback decision can restore it.
	PreviousValue float64 `json:"previous_value"`

	// Applied reports whether the decision passed the apply path.
	Applied bool `json:"applied"`

	// AppliedAt is when the decision was applied (zero if never applied).
	AppliedAt time.Time `json:"applied_at,omitzero"`

	// Outcome is attached after the measurement window; nil until then.
	Outcome *Outcome `json:"outcome,omitempty"`

	// RollbackOf is the ID of the decision this one compensates, if any.
	RollbackOf string `json:"rollback_of,omitempty"`
}

// Simulation is the impact simulator's estimate for one proposed decision.
type Simulation struct {
	// TargetMetric is the one signal the domain is expected to influence.
	TargetMetric string `json:"target_metric"`

	// PredictedValue is the linear-model estimate of the target metric after
	// the change.
	PredictedValue float64 `json:"predicted_value"`

	// Risk is a [0,1] step-function score of the adjustment magnitude.
	Risk float64 `json:"risk"`

	// Recommendations carries advisory notes; these never block application.
	Recommendations []string `json:"recommendations,omitempty"`
}

// RiskAssessment summarizes the mean simulated risk across a tick's proposals.
type RiskAssessment string

const (
	RiskNoAction RiskAssessment = "no_action"
	RiskLow      RiskAssessment = "low_risk"
	RiskMedium   RiskAssessment = "medium_risk"
	RiskHigh     RiskAssessment = "high_risk"
)

// Analysis is the result of one evaluation tick. It proposes decisions but
// applies nothing; the caller chooses which decisions to feed to ApplyDecision.
type Analysis struct {
	// Decisions are the proposed changes, at most one per domain.
	Decisions []*Decision `json:"decisions"`

	// Patterns is the recognized trend/volatility/anomaly classification.
	Patterns Patterns `json:"patterns"`

	// Confidence is the tick's confidence score.
	Confidence float64 `json:"confidence"`

	// Simulations maps decision ID to its simulated impact.
	Simulations map[string]*Simulation `json:"simulations,omitempty"`

	// RiskAssessment summarizes mean simulated risk across proposals.
	RiskAssessment RiskAssessment `json:"risk_assessment"`

	// EvaluatedAt is when the analysis ran.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// ApplyResult reports the outcome of an ApplyDecision call. Rejection is
// business data, not an error: every rejected decision carries machine-readable
// reasons so an operator or audit log can explain why no action was taken.
type ApplyResult struct {
	// Applied reports whether durable state was mutated.
	Applied bool `json:"applied"`

	// Reasons lists every violated check when Applied is false.
	Reasons []Reason `json:"reasons,omitempty"`
}

// Learning is one qualitative takeaway from outcome evaluation.
type Learning struct {
	// Domain is the tuning axis the learning applies to.
	Domain Domain `json:"domain"`

	// Label is the qualitative tag, e.g. "weight_nudging_adjustment_effective".
	Label string `json:"label"`

	// DecisionID is the ledger entry the learning was extracted from.
	DecisionID string `json:"decision_id"`
}

// OutcomeReport aggregates outcome evaluation across all domains.
type OutcomeReport struct {
	// Evaluations are the per-decision learnings extracted this pass.
	Evaluations []Learning `json:"evaluations"`

	// OverallSuccessRate is successful outcomes over evaluated outcomes,
	// 0 when nothing has an outcome yet.
	OverallSuccessRate float64 `json:"overall_success_rate"`
}

// Status is a point-in-time snapshot of engine state for operators.
type Status struct {
	// Enabled reports whether the engine will propose or apply decisions.
	Enabled bool `json:"enabled"`

	// Cooldowns maps each domain currently cooling down to the time its
	// cooldown window ends.
	Cooldowns map[Domain]time.Time `json:"cooldowns"`

	// RecentDecisionCount is the total ledger population across domains.
	RecentDecisionCount int `json:"recent_decision_count"`

	// SuccessRate is the historical success rate from recorded outcomes.
	SuccessRate float64 `json:"success_rate"`
}
