package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateEligibilitySlabs(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		requestedRate float64
		wantApproved  bool
		wantRate      float64
	}{
		{"high score keeps rate", 60, 8, true, 8},
		{"boundary 51 keeps rate", 51, 8, true, 8},
		{"mid slab floors at 12", 40, 8, true, 12},
		{"mid slab keeps higher rate", 40, 14, true, 14},
		{"boundary 50 is mid slab", 50, 8, true, 12},
		{"low slab floors at 16", 20, 8, true, 16},
		{"low slab keeps higher rate", 20, 18, true, 18},
		{"boundary 30 is low slab", 30, 12, true, 16},
		{"boundary 11 is low slab", 11, 16, true, 16},
		{"score 10 denied", 10, 25, false, 25},
		{"zero score denied", 0, 8, false, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := EvaluateEligibility(tt.score, tt.requestedRate)

			assert.Equal(t, tt.wantApproved, eval.Approved)
			assert.Equal(t, tt.wantRate, eval.CorrectedRate)
		})
	}
}

func TestEvaluateEligibilityNeverLowersRate(t *testing.T) {
	for score := 0; score <= 100; score += 5 {
		for _, rate := range []float64{0, 8, 12, 16, 20, 30} {
			eval := EvaluateEligibility(score, rate)
			assert.GreaterOrEqual(t, eval.CorrectedRate, rate,
				"score %d rate %.1f", score, rate)
		}
	}
}
