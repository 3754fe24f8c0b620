package control

import "math"

// domainResponse is the fixed linear response model for one domain: the one
// metric the domain is expected to influence and its sensitivity coefficient,
// plus the two magnitude bands that step the risk score.
type domainResponse struct {
	targetMetric string
	// sensitivity converts adjustment into predicted metric delta.
	sensitivity float64
	// lowBand and highBand step the risk score by |adjustment|.
	lowBand  float64
	highBand float64
}

var domainResponses = map[Domain]domainResponse{
	DomainWeightNudging:       {targetMetric: "re_noise_rate", sensitivity: 0.8, lowBand: 0.03, highBand: 0.07},
	DomainThresholdAdaptation: {targetMetric: "escalation_effectiveness", sensitivity: 0.6, lowBand: 0.03, highBand: 0.07},
	DomainSuppressionTuning:   {targetMetric: "false_positive_rate", sensitivity: 0.7, lowBand: 0.03, highBand: 0.06},
	DomainPersistencePolicy:   {targetMetric: "failure_ratio", sensitivity: 0.5, lowBand: 0.05, highBand: 0.1},
}

// Risk bands and the advisory thresholds derived from them. Recommendations
// are informational only and never block application.
const (
	riskLowScore    = 0.2
	riskMediumScore = 0.5
	riskHighScore   = 0.8

	adviseSmallerAdjustmentAbove = 0.7
	adviseCloseMonitoringAbove   = 0.5
)

// ImpactSimulator estimates the predicted post-change value of a domain's
// target metric and a risk score for a proposed decision. The model is a cheap
// linear response used only for risk advisory, never for blocking.
type ImpactSimulator struct{}

// NewImpactSimulator creates an impact simulator.
func NewImpactSimulator() *ImpactSimulator {
	return &ImpactSimulator{}
}

// Simulate predicts the effect of applying decision to current. The predicted
// value is current + adjustment·sensitivity on the domain's target metric;
// risk steps at the domain's two fixed magnitude bands.
func (s *ImpactSimulator) Simulate(decision *Decision, current Metrics) *Simulation {
	resp, ok := domainResponses[decision.Domain]
	if !ok {
		// Unknown domains are rejected at construction; an engine can still be
		// asked to simulate a foreign decision, which carries maximum risk.
		return &Simulation{Risk: riskHighScore}
	}

	magnitude := math.Abs(decision.Action.Adjustment)

	var risk float64
	switch {
	case magnitude > resp.highBand:
		risk = riskHighScore
	case magnitude > resp.lowBand:
		risk = riskMediumScore
	default:
		risk = riskLowScore
	}

	sim := &Simulation{
		TargetMetric:   resp.targetMetric,
		PredictedValue: metricValue(current, resp.targetMetric) + decision.Action.Adjustment*resp.sensitivity,
		Risk:           risk,
	}

	if risk > adviseSmallerAdjustmentAbove {
		sim.Recommendations = append(sim.Recommendations, "consider_smaller_adjustment")
	}
	if risk > adviseCloseMonitoringAbove {
		sim.Recommendations = append(sim.Recommendations, "monitor_closely_after_apply")
	}

	return sim
}

// metricValue resolves a metric by its wire name.
func metricValue(m Metrics, name string) float64 {
	switch name {
	case "re_noise_rate":
		return m.RENoiseRate
	case "failure_ratio":
		return m.FailureRatio
	case "escalation_effectiveness":
		return m.EscalationEffectiveness
	case "suppression_accuracy":
		return m.SuppressionAccuracy
	case "system_stability":
		return m.SystemStability
	case "alert_volume":
		return m.AlertVolume
	case "false_positive_rate":
		return m.FalsePositiveRate
	case "mean_time_to_ack":
		return m.MeanTimeToAck
	default:
		return 0
	}
}
