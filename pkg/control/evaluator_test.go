package control

import (
	"math"
	"testing"
)

// ============================================================================
// Domain Evaluator Tests
// ============================================================================

func nominalMetrics() Metrics {
	return Metrics{
		RENoiseRate:             0.1,
		FailureRatio:            0.05,
		EscalationEffectiveness: 0.85,
		SuppressionAccuracy:     0.9,
		SystemStability:         0.95,
		AlertVolume:             120,
		FalsePositiveRate:       0.1,
		MeanTimeToAck:           90,
	}
}

func testInput(m Metrics, confidence float64, cfg DomainConfig) evaluatorInput {
	return evaluatorInput{
		metrics:    m,
		patterns:   Patterns{Trend: TrendStable, Volatility: VolatilityLow},
		confidence: confidence,
		config:     cfg,
	}
}

func TestEvaluators_TriggerSemantics(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		metrics  Metrics
		wantFire bool
		wantSign float64
	}{
		{
			name:   "weight nudging fires on high noise",
			domain: DomainWeightNudging,
			metrics: func() Metrics {
				m := nominalMetrics()
				m.RENoiseRate = 0.35
				return m
			}(),
			wantFire: true,
			wantSign: -1,
		},
		{
			name:     "weight nudging quiet on nominal noise",
			domain:   DomainWeightNudging,
			metrics:  nominalMetrics(),
			wantFire: false,
		},
		{
			name:   "threshold adaptation fires on low escalation effectiveness",
			domain: DomainThresholdAdaptation,
			metrics: func() Metrics {
				m := nominalMetrics()
				m.EscalationEffectiveness = 0.4
				return m
			}(),
			wantFire: true,
			wantSign: +1,
		},
		{
			name:     "threshold adaptation quiet on effective escalations",
			domain:   DomainThresholdAdaptation,
			metrics:  nominalMetrics(),
			wantFire: false,
		},
		{
			name:   "suppression tuning fires on high false positives",
			domain: DomainSuppressionTuning,
			metrics: func() Metrics {
				m := nominalMetrics()
				m.FalsePositiveRate = 0.4
				return m
			}(),
			wantFire: true,
			wantSign: -1,
		},
		{
			name:   "persistence policy fires on high failure ratio",
			domain: DomainPersistencePolicy,
			metrics: func() Metrics {
				m := nominalMetrics()
				m.FailureRatio = 0.45
				return m
			}(),
			wantFire: true,
			wantSign: +1,
		},
	}

	cfg := DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := evaluators[tt.domain](testInput(tt.metrics, 0.8, cfg.Domains[tt.domain]))
			if !tt.wantFire {
				if d != nil {
					t.Fatalf("expected no decision, got %+v", d)
				}
				return
			}
			if d == nil {
				t.Fatal("expected a decision, got none")
			}
			if d.Domain != tt.domain {
				t.Errorf("expected domain %s, got %s", tt.domain, d.Domain)
			}
			if adj := d.Action.Adjustment; adj*tt.wantSign <= 0 {
				t.Errorf("expected adjustment sign %v, got %v", tt.wantSign, adj)
			}
			if d.ID == "" {
				t.Error("expected a decision ID")
			}
			if d.Trigger.Confidence != 0.8 {
				t.Errorf("expected trigger confidence 0.8, got %v", d.Trigger.Confidence)
			}
		})
	}
}

func TestEvaluators_ConfidenceGate(t *testing.T) {
	cfg := DefaultConfig()
	m := nominalMetrics()
	m.RENoiseRate = 0.9 // trivially over threshold

	d := evaluators[DomainWeightNudging](testInput(m, 0.3, cfg.Domains[DomainWeightNudging]))
	if d != nil {
		t.Errorf("expected no decision below the confidence gate, got %+v", d)
	}
}

func TestEvaluators_MagnitudeCapInvariant(t *testing.T) {
	// For any excess, |adjustment| must never exceed the domain's cap. Probe
	// with extreme metric values across all domains.
	cfg := DefaultConfig()

	extreme := Metrics{
		RENoiseRate:             1,
		FailureRatio:            1,
		EscalationEffectiveness: 0,
		FalsePositiveRate:       1,
	}

	for domain, evaluate := range evaluators {
		dc := cfg.Domains[domain]
		d := evaluate(testInput(extreme, 0.95, dc))
		if d == nil {
			t.Fatalf("domain %s: expected a decision from extreme metrics", domain)
		}
		if mag := math.Abs(d.Action.Adjustment); mag > dc.MaxAdjustment {
			t.Errorf("domain %s: |adjustment| %v exceeds cap %v", domain, mag, dc.MaxAdjustment)
		}
	}
}

func TestEvaluators_ProportionalBelowCap(t *testing.T) {
	cfg := DefaultConfig()
	dc := cfg.Domains[DomainWeightNudging]

	m := nominalMetrics()
	m.RENoiseRate = dc.TriggerThreshold + 0.02 // small excess, below cap

	d := evaluators[DomainWeightNudging](testInput(m, 0.9, dc))
	if d == nil {
		t.Fatal("expected a decision")
	}
	want := -dc.Scale * 0.02
	if math.Abs(d.Action.Adjustment-want) > 1e-9 {
		t.Errorf("expected proportional adjustment %v, got %v", want, d.Action.Adjustment)
	}
}
