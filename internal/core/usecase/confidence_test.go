package usecase

import (
	"math"
	"testing"
)

func TestEstimateConfidenceSingleScore(t *testing.T) {
	got := estimateConfidence([]float64{0.6}, 0.6)
	want := 0.6 / 1.2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("confidence = %v, want %v", got, want)
	}
}

func TestEstimateConfidenceMarginBumps(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{
			name:   "wide margin gets the larger bump",
			scores: []float64{0.9, 0.2},
			want:   clampConfidence(0.9 / (0.9 + 0.2*0.6) * 1.15),
		},
		{
			name:   "moderate margin gets the smaller bump",
			scores: []float64{0.75, 0.5},
			want:   clampConfidence(0.75 / (0.75 + 0.5*0.6) * 1.1),
		},
		{
			name:   "narrow margin gets no bump",
			scores: []float64{0.6, 0.55},
			want:   0.6 / (0.6 + 0.55*0.6),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := estimateConfidence(tc.scores, tc.scores[0])
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("confidence = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEstimateConfidenceNeverExceedsCeiling(t *testing.T) {
	got := estimateConfidence([]float64{5.0, 0.01}, 5.0)
	if got > 0.95 {
		t.Fatalf("confidence %v exceeds ceiling", got)
	}
	if got != 0.95 {
		t.Fatalf("dominant winner should clamp to 0.95, got %v", got)
	}
}

func TestEstimateConfidenceUnsortedInput(t *testing.T) {
	// The caller passes map values in arbitrary order.
	a := estimateConfidence([]float64{0.2, 0.9, 0.4}, 0.9)
	b := estimateConfidence([]float64{0.9, 0.4, 0.2}, 0.9)
	if a != b {
		t.Fatalf("confidence depends on input order: %v vs %v", a, b)
	}
}

func TestEstimateConfidenceZeroScores(t *testing.T) {
	if got := estimateConfidence([]float64{0, 0}, 0); got != 0 {
		t.Fatalf("all-zero scores should yield 0 confidence, got %v", got)
	}
}
