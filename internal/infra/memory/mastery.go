package memory

import "math"

// MasteryConfig weights the scalar components combined into the adaptive
// mastery score.
type MasteryConfig struct {
	AccuracyWeight   float64
	SpeedWeight      float64
	HintPenalty      float64
	StreakBonusUnit  float64
	StreakBonusCap   float64
	TrendMultiplier  map[string]float64
}

// DefaultMasteryConfig returns baseline defaults; the trend multiplier
// rewards a classified Up trend and dampens a Down one.
func DefaultMasteryConfig() MasteryConfig {
	return MasteryConfig{
		AccuracyWeight:  0.45,
		SpeedWeight:     0.2,
		HintPenalty:     0.15,
		StreakBonusUnit: 0.02,
		StreakBonusCap:  0.2,
		TrendMultiplier: map[string]float64{
			"up":    1.1,
			"flat":  1.0,
			"down":  0.85,
			"stuck": 0.9,
		},
	}
}

// Score combines recent accuracy, a response-time factor, a hint-usage
// penalty, a streak bonus, and a trend multiplier into a bounded [0,1]
// mastery scalar.
func Score(cfg MasteryConfig, accuracy, responseTimeFactor float64, avgHints float64, streak int, trend string) float64 {
	streakBonus := math.Min(float64(streak)*cfg.StreakBonusUnit, cfg.StreakBonusCap)
	hintCost := cfg.HintPenalty * math.Min(1, avgHints/3)

	base := cfg.AccuracyWeight*accuracy + cfg.SpeedWeight*responseTimeFactor - hintCost + streakBonus
	mult, ok := cfg.TrendMultiplier[trend]
	if !ok {
		mult = 1.0
	}
	return clamp01(base * mult)
}

// Declared reports whether a mastery score clears the user-specific dynamic
// cap: the same burden-adjusted retention target computed in rtarget.go, so
// a lightly-loaded learner needs to demonstrate a higher bar than one
// already carrying a heavy review burden.
func Declared(score, dynamicCap float64) bool {
	return score >= dynamicCap
}
