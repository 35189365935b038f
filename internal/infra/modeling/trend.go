package modeling

import (
	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/linalg"
)

// TrendConfig parameterizes the sliding-window slope classifier.
type TrendConfig struct {
	WindowSize     int     // W
	UpThreshold    float64 // u
	DownThreshold  float64 // d
	StuckVariance  float64 // σ
	StuckSlopeAbs  float64 // |slope| < 0.01 per spec
}

// DefaultTrendConfig returns baseline defaults.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		WindowSize:    10,
		UpThreshold:   0.02,
		DownThreshold: -0.02,
		StuckVariance: 0.01,
		StuckSlopeAbs: 0.01,
	}
}

// MasteryWindow is a bounded FIFO of recent mastery scores.
type MasteryWindow struct {
	Values []float64
	Cap    int
}

// NewMasteryWindow returns an empty window with the given capacity.
func NewMasteryWindow(cap int) MasteryWindow {
	return MasteryWindow{Values: make([]float64, 0, cap), Cap: cap}
}

// Push appends a mastery score, evicting the oldest once at capacity.
func (w *MasteryWindow) Push(v float64) {
	if w.Cap <= 0 {
		w.Cap = 10
	}
	w.Values = append(w.Values, v)
	if len(w.Values) > w.Cap {
		w.Values = w.Values[len(w.Values)-w.Cap:]
	}
}

// Classify computes the OLS slope over the window and returns the
// classified trend:
//
//	Up    if slope > u
//	Down  if slope < d
//	Stuck if var < σ and |slope| < 0.01
//	Flat  otherwise
func Classify(cfg TrendConfig, w MasteryWindow) domain.Trend {
	if len(w.Values) < 2 {
		return domain.TrendFlat
	}
	slope := linalg.OLSSlope(w.Values)
	variance := linalg.Variance(w.Values)

	switch {
	case slope > cfg.UpThreshold:
		return domain.TrendUp
	case slope < cfg.DownThreshold:
		return domain.TrendDown
	case variance < cfg.StuckVariance && absf(slope) < cfg.StuckSlopeAbs:
		return domain.TrendStuck
	default:
		return domain.TrendFlat
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
