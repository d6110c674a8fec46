package usecase

import "sort"

const confidenceCeiling = 0.95

// Fixed result values for rule-matched queries.
const (
	ruleMatchScore      = 0.95
	ruleMatchConfidence = 0.90
)

// estimateConfidence calibrates confidence from the fused score
// distribution using the margin between the top two scores. A wide margin
// means an unambiguous winner and earns a multiplicative bump. The result
// is clamped to [0, 0.95]; the engine never claims certainty.
func estimateConfidence(scores []float64, best float64) float64 {
	if len(scores) <= 1 {
		return clampConfidence(best / 1.2)
	}

	sorted := append([]float64(nil), scores...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	top := sorted[0]
	second := sorted[1]

	margin := top - second
	denominator := top + second*0.6
	if denominator == 0 {
		return 0
	}
	confidence := top / denominator

	switch {
	case margin > 0.3:
		confidence *= 1.15
	case margin > 0.2:
		confidence *= 1.1
	}
	return clampConfidence(confidence)
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > confidenceCeiling {
		return confidenceCeiling
	}
	return confidence
}
