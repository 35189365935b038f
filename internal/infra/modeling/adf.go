// Package modeling implements the dynamics of attention, fatigue, motivation,
// cognitive profile, trend detection, and power-law forgetting.
// Every update here is O(1), incremental, and closes over UserState.Clamp so
// results never drift outside their declared domain.
package modeling

import (
	"math"

	"github.com/tutu-network/amas/internal/domain"
)

// ADFWeights are the fixed weights the Attention Dynamics Filter applies to
// its six normalized feature inputs.
type ADFWeights struct {
	Accuracy      float64
	RTInverse     float64 // weight on (1 - rtNorm)
	PauseCount    float64
	SwitchCount   float64
	FocusLoss     float64
	Interaction   float64
}

// DefaultADFWeights returns (0.25, 0.25, -0.15, -0.10, -0.15, 0.10).
func DefaultADFWeights() ADFWeights {
	return ADFWeights{
		Accuracy:    0.25,
		RTInverse:   0.25,
		PauseCount:  -0.15,
		SwitchCount: -0.10,
		FocusLoss:   -0.15,
		Interaction: 0.10,
	}
}

// ADFConfig configures the attention filter.
type ADFConfig struct {
	Weights ADFWeights
	AlphaBase float64 // base smoothing factor before the abrupt-change penalty
}

// DefaultADFConfig returns baseline defaults.
func DefaultADFConfig() ADFConfig {
	return ADFConfig{Weights: DefaultADFWeights(), AlphaBase: 0.7}
}

// ADFInputs are the raw per-event observations the filter normalizes before
// blending.
type ADFInputs struct {
	Accuracy           float64 // 0 or 1 for this event, or recent accuracy if provided
	ResponseTimeMs     float64
	BaselineRTMs       float64 // normalization baseline, defaults applied by caller
	PauseCount         int
	SwitchCount        int
	FocusLossMs        float64
	InteractionDensity float64 // already normalized to roughly [0,1] by caller
}

// Observation computes the tanh-rescaled weighted sum φ of the six
// normalized features
func Observation(cfg ADFConfig, in ADFInputs) float64 {
	rtNorm := 1.0
	if in.BaselineRTMs > 0 {
		rtNorm = in.ResponseTimeMs / (in.BaselineRTMs * 3)
	}
	rtNorm = clamp01(rtNorm)

	focusLossNorm := clamp01(in.FocusLossMs / 10000) // 10s focus loss saturates
	pauseNorm := clamp01(float64(in.PauseCount) / 10)
	switchNorm := clamp01(float64(in.SwitchCount) / 10)
	interactionNorm := clamp01(in.InteractionDensity)
	accuracy := clamp01(in.Accuracy)

	w := cfg.Weights
	raw := w.Accuracy*accuracy +
		w.RTInverse*(1-rtNorm) +
		w.PauseCount*pauseNorm +
		w.SwitchCount*switchNorm +
		w.FocusLoss*focusLossNorm +
		w.Interaction*interactionNorm

	// (tanh(x)+1)/2, the logistic σ(2x), rescales the unbounded weighted
	// sum into (0,1).
	return (math.Tanh(raw) + 1) / 2
}

// Update applies the ADF low-pass filter to attention, with a fast-response
// term for abrupt observation changes.
func Update(cfg ADFConfig, prevAttention, prevPhi, phi float64) (newAttention float64) {
	alpha := cfg.AlphaBase * (1 - math.Abs(phi-prevPhi))
	alpha = clamp01(alpha)
	newAttention = alpha*prevAttention + (1-alpha)*phi
	return clamp01(newAttention)
}

// ApplyToState computes the new observation and folds it into u.Attention,
// returning the observation value so the caller can pass it back as the
// next call's prevPhi. prevPhi should be the caller-tracked previous
// observation (0.5 as an uninformative seed).
func ApplyToState(cfg ADFConfig, u *domain.UserState, prevPhi float64, in ADFInputs) (phi float64) {
	phi = Observation(cfg, in)
	u.Attention = Update(cfg, u.Attention, prevPhi, phi)
	return phi
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
