package modeling

import "github.com/tutu-network/amas/internal/infra/linalg"

// CognitiveConfig parameterizes the cognitive-profile EMA and stability
// windowing.
type CognitiveConfig struct {
	AlphaMem       float64 // EMA smoothing for accuracy -> mem
	SpeedBaselineMultiplier float64 // RT/(baseline*multiplier) normalization
	StabilityWindow int    // minimum window size before stability is computed
	StabilityScale  float64 // scale applied to variance before 1-min(1,.)
	WindowCap       int    // bounded accuracy-window capacity

	// DefaultBaselineMs seeds a new user's adaptive response-time baseline
	// before any events have been observed.
	DefaultBaselineMs float64
	// BaselineAlpha is the EMA step the caller applies each event to keep
	// the baseline tracking the user's typical response time.
	BaselineAlpha float64
}

// DefaultCognitiveConfig returns baseline defaults: speed normalizes
// against 3x baseline RT, stability needs a window of at least 3, and the
// variance scale factor is 4.
func DefaultCognitiveConfig() CognitiveConfig {
	return CognitiveConfig{
		AlphaMem:                0.2,
		SpeedBaselineMultiplier: 3.0,
		StabilityWindow:         3,
		StabilityScale:          4.0,
		WindowCap:               20,
		DefaultBaselineMs:       3000,
		BaselineAlpha:           0.1,
	}
}

// AccuracyWindow is a small bounded FIFO of recent accuracy observations
// (1.0 correct / 0.0 incorrect) used to estimate stability and, in the
// engine, the error trend fed to behavioral fatigue. It is part
// of a user's working state and round-trips with the snapshot.
type AccuracyWindow struct {
	Values []float64
	Cap    int
}

// NewAccuracyWindow returns an empty window with the given capacity.
func NewAccuracyWindow(cap int) AccuracyWindow {
	return AccuracyWindow{Values: make([]float64, 0, cap), Cap: cap}
}

// Push appends v, evicting the oldest entry once at capacity.
func (w *AccuracyWindow) Push(v float64) {
	if w.Cap <= 0 {
		w.Cap = 20
	}
	w.Values = append(w.Values, v)
	if len(w.Values) > w.Cap {
		w.Values = w.Values[len(w.Values)-w.Cap:]
	}
}

// UpdateMem applies the accuracy EMA: mem <- alpha*accuracy + (1-alpha)*mem.
func UpdateMem(cfg CognitiveConfig, prevMem, accuracy float64) float64 {
	mem := cfg.AlphaMem*linalg.Clamp01(accuracy) + (1-cfg.AlphaMem)*prevMem
	return linalg.Clamp01(mem)
}

// UpdateSpeed computes the normalized speed component for this event:
// 1 - min(1, RT/(baseline*3)).
func UpdateSpeed(cfg CognitiveConfig, responseTimeMs, baselineMs float64) float64 {
	if baselineMs <= 0 {
		baselineMs = responseTimeMs
		if baselineMs <= 0 {
			return 0.5
		}
	}
	ratio := responseTimeMs / (baselineMs * cfg.SpeedBaselineMultiplier)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return linalg.Clamp01(1 - ratio)
}

// UpdateStability computes 1 - min(1, scale*variance(window)) once the
// window has reached the configured minimum size; otherwise it returns the
// previous stability unchanged (not enough data to re-estimate).
func UpdateStability(cfg CognitiveConfig, prevStability float64, window AccuracyWindow) float64 {
	if len(window.Values) < cfg.StabilityWindow {
		return prevStability
	}
	v := linalg.Variance(window.Values)
	scaled := cfg.StabilityScale * v
	if scaled > 1 {
		scaled = 1
	}
	return linalg.Clamp01(1 - scaled)
}
