// Package ensemble combines the decision algorithms' independent proposals
// into one winning strategy, tracks each algorithm's trust, and shapes the
// reward signal fed back to them.
package ensemble

// Performance tracks one algorithm's recency-weighted reliability.
type Performance struct {
	EmaReward   float64
	SampleCount int
}

// NewPerformance seeds an algorithm at the trust floor with no samples.
func NewPerformance() Performance {
	return Performance{EmaReward: 0.05, SampleCount: 0}
}

// TrustScore clamps EmaReward into [0.05, 1.0].
func (p Performance) TrustScore() float64 {
	return clampRange(p.EmaReward, 0.05, 1.0)
}

// Observe folds a new reward into the EMA with a sample-count-adaptive
// step: β = 1/min(sampleCount+1, 50), so early observations move the
// estimate quickly and later ones refine it slowly.
func (p *Performance) Observe(reward float64) {
	beta := 1.0 / minInt(p.SampleCount+1, 50)
	p.EmaReward = (1-beta)*p.EmaReward + beta*reward
	p.SampleCount++
}

func minInt(a, b int) float64 {
	if a < b {
		return float64(a)
	}
	return float64(b)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
