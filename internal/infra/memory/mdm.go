// Package memory implements the per-item memory-decay models: the Memory
// Dynamics Model (MDM), the Multi-Scale Memory Trace (MSMT), dynamic
// R-target computation, and adaptive mastery scoring.
package memory

import "math"

// MDMConfig parameterizes the Memory Dynamics Model's decay rate and update
// gains.
type MDMConfig struct {
	Lambda0      float64 // λ₀, base decay rate
	Alpha        float64 // α, strength's effect on decay
	Eta          float64 // η, consolidation's effect on decay
	Kappa        float64 // κ, strength growth gain
	Mu           float64 // μ, consolidation growth gain
	StrengthMax  float64 // M_max
	StrengthMin  float64
	MinIntervalDays float64
	MaxIntervalDays float64
}

// DefaultMDMConfig returns baseline defaults.
func DefaultMDMConfig() MDMConfig {
	return MDMConfig{
		Lambda0:         0.1,
		Alpha:           0.3,
		Eta:             0.2,
		Kappa:           0.25,
		Mu:              0.15,
		StrengthMax:     10.0,
		StrengthMin:     0.1,
		MinIntervalDays: 0,
		MaxIntervalDays: 365,
	}
}

// ItemState is the per-item MDM state: strength and consolidation
// evolve monotonically under nonzero quality, and decay only through the
// retrievability function of elapsed time.
type ItemState struct {
	Strength      float64
	Consolidation float64
	LastReviewTs  int64 // ms epoch
}

// NewItemState seeds a fresh item at the floor strength and zero
// consolidation.
func NewItemState(nowMs int64) ItemState {
	return ItemState{Strength: DefaultMDMConfig().StrengthMin, Consolidation: 0, LastReviewTs: nowMs}
}

// DecayRate computes λ(M,C) = λ₀·exp(−α·M)·(1−η·C).
func DecayRate(cfg MDMConfig, strength, consolidation float64) float64 {
	rate := cfg.Lambda0 * math.Exp(-cfg.Alpha*strength) * (1 - cfg.Eta*consolidation)
	if rate < 0 {
		rate = 0
	}
	return rate
}

// Retrievability computes R(t) = exp(−λ·t) for t in the same time unit as
// the caller's λ convention (this package uses hours).
func Retrievability(lambda, elapsedHours float64) float64 {
	if elapsedHours <= 0 {
		return 1
	}
	r := math.Exp(-lambda * elapsedHours)
	return clamp01(r)
}

// Quality maps an answer outcome to the q∈[0,1] review-quality scalar used
// to drive MDM updates: 0 on incorrect; otherwise a blend of response-time
// speed and hint economy.
func Quality(isCorrect bool, responseTimeMs float64, hintsUsed int) float64 {
	if !isCorrect {
		return 0
	}
	rtFactor := 1 - math.Min(1, responseTimeMs/30000)
	hintFactor := 1 - math.Min(1, float64(hintsUsed)/3)
	q := 0.5 + 0.3*rtFactor + 0.2*hintFactor
	return clamp01(q)
}

// Update applies one review's quality to the item's strength and
// consolidation: ΔM = κ·q·(M_max−M), ΔC = μ·q·(1−C).
func Update(cfg MDMConfig, s ItemState, quality float64, nowMs int64) ItemState {
	dStrength := cfg.Kappa * quality * (cfg.StrengthMax - s.Strength)
	dConsolidation := cfg.Mu * quality * (1 - s.Consolidation)

	next := ItemState{
		Strength:      clampRange(s.Strength+dStrength, cfg.StrengthMin, cfg.StrengthMax),
		Consolidation: clamp01(s.Consolidation + dConsolidation),
		LastReviewTs:  nowMs,
	}
	return next
}

// IntervalForTarget solves R(t) = target for t, returning
// −ln(clamp(target,0.05,0.97))/λ in days, clamped to [0, MaxIntervalDays].
func IntervalForTarget(cfg MDMConfig, lambda, target float64) float64 {
	target = clampRange(target, 0.05, 0.97)
	if lambda <= 0 {
		return cfg.MaxIntervalDays
	}
	days := -math.Log(target) / lambda
	return clampRange(days, cfg.MinIntervalDays, cfg.MaxIntervalDays)
}

func clamp01(v float64) float64 { return clampRange(v, 0, 1) }

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
