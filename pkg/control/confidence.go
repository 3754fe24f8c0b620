package control

// Fixed weights of the confidence blend. Sample sufficiency dominates; signal
// stability and historical success split the remainder evenly.
const (
	confidenceSampleWeight     = 0.4
	confidenceVarianceWeight   = 0.3
	confidenceHistoryWeight    = 0.3
	confidenceSampleSaturation = 100

	// defaultSuccessRate is assumed when no decision has ever been applied.
	defaultSuccessRate = 0.5
)

// ConfidenceEstimator scores decision-worthiness from sample size, signal
// variance, and the engine's historical success rate. Estimate is pure and
// deterministic: identical inputs always produce identical output.
type ConfidenceEstimator struct{}

// NewConfidenceEstimator creates a confidence estimator.
func NewConfidenceEstimator() *ConfidenceEstimator {
	return &ConfidenceEstimator{}
}

// Estimate returns a confidence score in [0,1]:
//
//	0.4·min(sampleCount/100, 1) + 0.3·(1/(1+variance)) + 0.3·historicalSuccessRate
//
// Callers with no applied-decision history pass defaultSuccessRate (0.5).
func (e *ConfidenceEstimator) Estimate(sampleCount int, variance, historicalSuccessRate float64) float64 {
	if sampleCount < 0 {
		sampleCount = 0
	}
	if variance < 0 {
		variance = 0
	}
	historicalSuccessRate = clamp01(historicalSuccessRate)

	sampleScore := float64(sampleCount) / confidenceSampleSaturation
	if sampleScore > 1 {
		sampleScore = 1
	}
	stabilityScore := 1 / (1 + variance)

	return confidenceSampleWeight*sampleScore +
		confidenceVarianceWeight*stabilityScore +
		confidenceHistoryWeight*historicalSuccessRate
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
