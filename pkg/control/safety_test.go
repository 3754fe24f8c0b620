package control

import (
	"testing"
)

// ============================================================================
// Safety Validator Tests
// ============================================================================

func defaultRails() SafetyRails {
	return DefaultConfig().Rails
}

func TestValidate_PassesNominalDecision(t *testing.T) {
	rails := defaultRails()
	v := NewSafetyValidator(&rails)

	result := v.Validate(decisionWithAdjustment(DomainWeightNudging, -0.05), 0.8)
	if !result.Valid {
		t.Fatalf("expected valid decision, got reasons %v", result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", result.Reasons)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	rails := defaultRails()
	rails.Enabled = false
	rails.HumanOverride = true
	v := NewSafetyValidator(&rails)

	// Oversized adjustment with low confidence: every check fails and every
	// reason must be reported, not just the first.
	result := v.Validate(decisionWithAdjustment(DomainWeightNudging, 0.5), 0.1)
	if result.Valid {
		t.Fatal("expected invalid decision")
	}

	want := []Reason{
		ReasonRailsDisabled,
		ReasonHumanOverride,
		ReasonInsufficientConfidence,
		ReasonAdjustmentTooLarge,
	}
	if len(result.Reasons) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), result.Reasons)
	}
	for i, r := range want {
		if result.Reasons[i] != r {
			t.Errorf("reason %d: expected %s, got %s", i, r, result.Reasons[i])
		}
	}
}

func TestValidate_IndividualChecks(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*SafetyRails)
		adjustment float64
		confidence float64
		wantReason Reason
	}{
		{
			name:       "rails disabled",
			mutate:     func(r *SafetyRails) { r.Enabled = false },
			adjustment: 0.05,
			confidence: 0.9,
			wantReason: ReasonRailsDisabled,
		},
		{
			name:       "human override",
			mutate:     func(r *SafetyRails) { r.HumanOverride = true },
			adjustment: 0.05,
			confidence: 0.9,
			wantReason: ReasonHumanOverride,
		},
		{
			name:       "confidence below floor",
			mutate:     func(r *SafetyRails) {},
			adjustment: 0.05,
			confidence: 0.69,
			wantReason: ReasonInsufficientConfidence,
		},
		{
			name:       "adjustment over global cap",
			mutate:     func(r *SafetyRails) {},
			adjustment: 0.2,
			confidence: 0.9,
			wantReason: ReasonAdjustmentTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rails := defaultRails()
			tt.mutate(&rails)
			v := NewSafetyValidator(&rails)

			result := v.Validate(decisionWithAdjustment(DomainWeightNudging, tt.adjustment), tt.confidence)
			if result.Valid {
				t.Fatal("expected invalid decision")
			}
			if len(result.Reasons) != 1 || result.Reasons[0] != tt.wantReason {
				t.Errorf("expected single reason %s, got %v", tt.wantReason, result.Reasons)
			}
		})
	}
}

func TestValidate_SeesRailToggles(t *testing.T) {
	rails := defaultRails()
	v := NewSafetyValidator(&rails)

	d := decisionWithAdjustment(DomainWeightNudging, -0.05)
	if !v.Validate(d, 0.9).Valid {
		t.Fatal("expected valid before toggle")
	}

	rails.HumanOverride = true
	if v.Validate(d, 0.9).Valid {
		t.Fatal("expected invalid after human override toggle")
	}
}
