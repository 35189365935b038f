package decision

import (
	"math"

	"github.com/tutu-network/amas/internal/domain"
)

// HeuristicConfig names the thresholds the rule engine mutates the current
// strategy against.
type HeuristicConfig struct {
	FatigueHigh     float64
	AttentionLow    float64
	MotivationLow   float64
	ThrivingMot     float64
	ThrivingFatigue float64
	ThrivingAttn    float64
	MemHigh         float64
	SpeedHigh       float64
	MemLow          float64
}

// DefaultHeuristicConfig returns baseline thresholds.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		FatigueHigh:     0.7,
		AttentionLow:    0.4,
		MotivationLow:   -0.3,
		ThrivingMot:     0.7,
		ThrivingFatigue: 0.3,
		ThrivingAttn:    0.7,
		MemHigh:         0.7,
		SpeedHigh:       0.7,
		MemLow:          0.3,
	}
}

// Heuristic is the deterministic rule-engine algorithm: it never explores,
// it mutates a copy of the candidate strategy toward what the current
// UserState plainly calls for.
type Heuristic struct {
	cfg HeuristicConfig
}

// NewHeuristic creates a rule engine over cfg.
func NewHeuristic(cfg HeuristicConfig) *Heuristic {
	return &Heuristic{cfg: cfg}
}

// ID identifies this algorithm in ensemble explanations.
func (h *Heuristic) ID() string { return "heuristic" }

// Select mutates the first candidate (read as "the current strategy") by
// the fired rules and clamps the result back into its declared domains.
// Each rule is applied once per call; the mutations are not idempotent, so
// re-applying the rules to their own output shifts the strategy further.
func (h *Heuristic) Select(state domain.UserState, _ domain.FeatureVector, candidates []domain.StrategyParams) (domain.StrategyParams, bool) {
	if len(candidates) == 0 {
		return domain.StrategyParams{}, false
	}
	s := candidates[0]
	_, s = h.apply(state, s)
	return s, true
}

// apply runs every rule in order and returns the per-rule confidence
// factors alongside the mutated strategy.
func (h *Heuristic) apply(state domain.UserState, s domain.StrategyParams) ([]float64, domain.StrategyParams) {
	var factors []float64

	if state.Fatigue > h.cfg.FatigueHigh {
		s.BatchSize = s.BatchSize - 2
		s.NewRatio = s.NewRatio * 0.7
		s.Difficulty = downshift(s.Difficulty)
		factors = append(factors, 0.85)
	}

	if state.Attention < h.cfg.AttentionLow {
		s.HintLevel = s.HintLevel + 1
		if dominantVARKFavorsHints(state.VARK) {
			s.HintLevel = s.HintLevel + 1
		}
		factors = append(factors, 0.85)
	}

	if state.Motivation < h.cfg.MotivationLow {
		s.Difficulty = downshift(s.Difficulty)
		s.IntervalScale = s.IntervalScale * 1.15
		factors = append(factors, 0.85)
	}

	if state.Motivation > h.cfg.ThrivingMot && state.Fatigue < h.cfg.ThrivingFatigue && state.Attention > h.cfg.ThrivingAttn {
		s.BatchSize = s.BatchSize + 2
		s.Difficulty = upshift(s.Difficulty)
		factors = append(factors, 0.9)
	}

	if state.Cognitive.Mem > h.cfg.MemHigh && state.Cognitive.Speed > h.cfg.SpeedHigh {
		s.IntervalScale = s.IntervalScale * 0.9
		factors = append(factors, 0.9)
	} else if state.Cognitive.Mem < h.cfg.MemLow {
		s.IntervalScale = s.IntervalScale * 1.1
		s.HintLevel = s.HintLevel + 1
		factors = append(factors, 0.85)
	}

	s.Clamp()
	return factors, s
}

func downshift(d domain.Difficulty) domain.Difficulty {
	if d == domain.Easy {
		return domain.Easy
	}
	return d - 1
}

// dominantVARKFavorsHints reports whether Visual is the learner's dominant
// calibrated modality (ties with another modality count as dominant). Only
// then does the low-attention rule add a second hint level.
func dominantVARKFavorsHints(v domain.VARKProfile) bool {
	dominant := v.Auditory
	if v.ReadWrite > dominant {
		dominant = v.ReadWrite
	}
	if v.Kinesthetic > dominant {
		dominant = v.Kinesthetic
	}
	return v.Visual >= dominant
}

func upshift(d domain.Difficulty) domain.Difficulty {
	if d == domain.Hard {
		return domain.Hard
	}
	return d + 1
}

// Update is a no-op: the heuristic has no learned parameters.
func (h *Heuristic) Update(domain.FeatureVector, domain.StrategyParams, float64) {}

// Confidence is max(0.3, ∏ factor_i) over the rules fired for this
// strategy's originating UserState. Since the heuristic's Select signature
// doesn't carry UserState through to Confidence, the engine calls
// ConfidenceFor with the same state used at selection time.
func (h *Heuristic) Confidence(_ domain.FeatureVector, _ domain.StrategyParams) float64 {
	return 0.3
}

// ConfidenceFor computes the rule-engine's true confidence for a given
// UserState: the product of fired-rule factors, floored at 0.3.
func (h *Heuristic) ConfidenceFor(state domain.UserState, s domain.StrategyParams) float64 {
	factors, _ := h.apply(state, s)
	product := 1.0
	for _, f := range factors {
		product *= f
	}
	return math.Max(0.3, product)
}
