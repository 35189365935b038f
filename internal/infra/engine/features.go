package engine

import (
	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/linalg"
)

// trendValue maps a classified trend to a scalar the feature vector can
// carry: Up and Down anchor the extremes, Flat sits at the midpoint, and
// Stuck sits just below it (still not improving, but not actively sliding).
func trendValue(t domain.Trend) float64 {
	switch t {
	case domain.TrendUp:
		return 1.0
	case domain.TrendDown:
		return 0.0
	case domain.TrendStuck:
		return 0.25
	default:
		return 0.5
	}
}

// dominantModalityWeight returns the VARK profile's largest component,
// a proxy for how strongly the user's learning style has been calibrated.
func dominantModalityWeight(v domain.VARKProfile) float64 {
	best := v.Visual
	if v.Auditory > best {
		best = v.Auditory
	}
	if v.ReadWrite > best {
		best = v.ReadWrite
	}
	if v.Kinesthetic > best {
		best = v.Kinesthetic
	}
	return best
}

// buildFeatures assembles the fixed ContextDim-length feature vector every
// decision algorithm scores candidates against. predictedRecall blends the
// MSMT and power-law forgetting-curve estimates for the event's word (0.5
// when no word is attached to this event).
func buildFeatures(state domain.UserState, predictedRecall float64) domain.FeatureVector {
	return domain.FeatureVector{
		0: state.Attention,
		1: state.Fatigue,
		2: (state.Motivation + 1) / 2,
		3: state.Cognitive.Mem,
		4: state.Cognitive.Speed,
		5: state.Cognitive.Stability,
		6: linalg.Clamp01(float64(state.Streak) / 10),
		7: trendValue(state.Trend),
		8: predictedRecall,
		9: dominantModalityWeight(state.VARK),
	}
}
