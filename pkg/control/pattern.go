package control

// Fixed classification bands for the pattern recognizer. The trend bands
// compare late-half to early-half means of the primary signal; the volatility
// bands threshold its population variance; the anomaly thresholds apply to the
// latest sample only.
const (
	trendDegradingRatio = 1.1
	trendImprovingRatio = 0.9

	volatilityHighBand   = 0.1
	volatilityMediumBand = 0.05

	anomalyNoiseThreshold         = 0.3
	anomalyFailureThreshold       = 0.3
	anomalyEscalationThreshold    = 0.6
	anomalyFalsePositiveThreshold = 0.25

	// minPatternSamples is the evidence floor: with fewer samples the
	// recognizer reports stable/low/none rather than guessing.
	minPatternSamples = 3
)

// PatternRecognizer classifies a metrics history window into trend,
// volatility, and anomaly labels. It is stateless; the same window always
// produces the same classification.
type PatternRecognizer struct{}

// NewPatternRecognizer creates a pattern recognizer.
func NewPatternRecognizer() *PatternRecognizer {
	return &PatternRecognizer{}
}

// Recognize classifies the last windowSize samples of history. When the
// effective window holds fewer than three samples - a short history or a
// caller-supplied window of 1 or 2 - it returns the insufficient-evidence
// classification (stable trend, low volatility, no anomalies) rather than
// fabricating a trend from a degenerate split.
func (r *PatternRecognizer) Recognize(history []Metrics, windowSize int) Patterns {
	window := history
	if windowSize > 0 && len(history) > windowSize {
		window = history[len(history)-windowSize:]
	}
	if len(window) < minPatternSamples {
		return Patterns{Trend: TrendStable, Volatility: VolatilityLow}
	}

	primary := make([]float64, len(window))
	for i, m := range window {
		primary[i] = m.RENoiseRate
	}

	return Patterns{
		Trend:      classifyTrend(primary),
		Volatility: classifyVolatility(populationVariance(primary)),
		Anomalies:  detectAnomalies(window[len(window)-1]),
	}
}

// classifyTrend compares the late half's mean against the early half's. The
// primary signal is a noise rate, so a rising mean is degrading.
func classifyTrend(series []float64) Trend {
	half := len(series) / 2
	early := mean(series[:half])
	late := mean(series[half:])

	switch {
	case late > early*trendDegradingRatio:
		return TrendDegrading
	case late < early*trendImprovingRatio:
		return TrendImproving
	default:
		return TrendStable
	}
}

func classifyVolatility(variance float64) Volatility {
	switch {
	case variance > volatilityHighBand:
		return VolatilityHigh
	case variance > volatilityMediumBand:
		return VolatilityMedium
	default:
		return VolatilityLow
	}
}

// detectAnomalies checks the latest sample against fixed absolute thresholds.
// The flags are independent; several may fire simultaneously.
func detectAnomalies(latest Metrics) []Anomaly {
	var anomalies []Anomaly
	if latest.RENoiseRate > anomalyNoiseThreshold {
		anomalies = append(anomalies, AnomalyHighNoise)
	}
	if latest.FailureRatio > anomalyFailureThreshold {
		anomalies = append(anomalies, AnomalyHighFailureRatio)
	}
	if latest.EscalationEffectiveness < anomalyEscalationThreshold {
		anomalies = append(anomalies, AnomalyLowEscalationValue)
	}
	if latest.FalsePositiveRate > anomalyFalsePositiveThreshold {
		anomalies = append(anomalies, AnomalyHighFalsePositives)
	}
	return anomalies
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// populationVariance computes the population (not sample) variance.
func populationVariance(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	m := mean(series)
	var sum float64
	for _, v := range series {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(series))
}
