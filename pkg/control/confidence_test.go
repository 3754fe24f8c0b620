package control

import (
	"math"
	"testing"
)

// ============================================================================
// Confidence Estimator Tests
// ============================================================================

func TestEstimate_KnownValues(t *testing.T) {
	e := NewConfidenceEstimator()

	tests := []struct {
		name        string
		sampleCount int
		variance    float64
		successRate float64
		want        float64
	}{
		// 0.4·min(n/100,1) + 0.3·(1/(1+var)) + 0.3·rate
		{"zero everything", 0, 0, 0, 0.3},
		{"no history default rate", 0, 0, 0.5, 0.45},
		{"saturated samples", 100, 0, 0.5, 0.85},
		{"oversaturated samples clamp", 500, 0, 0.5, 0.85},
		{"perfect inputs", 100, 0, 1, 1},
		{"unit variance halves stability", 50, 1, 0.5, 0.4*0.5 + 0.3*0.5 + 0.3*0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Estimate(tt.sampleCount, tt.variance, tt.successRate)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	e := NewConfidenceEstimator()

	first := e.Estimate(42, 0.07, 0.66)
	for i := 0; i < 100; i++ {
		if got := e.Estimate(42, 0.07, 0.66); got != first {
			t.Fatalf("estimate drifted on call %d: %v != %v", i, got, first)
		}
	}
}

func TestEstimate_OutputRange(t *testing.T) {
	e := NewConfidenceEstimator()

	// Sweep the input space including degenerate values; output must always
	// stay in [0,1].
	samples := []int{0, 1, 10, 100, 10000, -5}
	variances := []float64{0, 0.001, 0.5, 1, 100, -1}
	rates := []float64{0, 0.25, 0.5, 1, 1.5, -0.5}

	for _, n := range samples {
		for _, v := range variances {
			for _, r := range rates {
				got := e.Estimate(n, v, r)
				if got < 0 || got > 1 {
					t.Errorf("Estimate(%d, %v, %v) = %v out of [0,1]", n, v, r, got)
				}
			}
		}
	}
}
