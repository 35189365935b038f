package ensemble

import "math"

// RewardConfig weights the components of the immediate per-event reward
// and the session-level deferred composite.
type RewardConfig struct {
	CorrectnessWeight     float64
	ResponseTimeWeight    float64
	ResponseTimeCapMs     float64
	HintPenaltyWeight     float64
	MotivationDeltaWeight float64
}

// DefaultRewardConfig returns baseline weights.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		CorrectnessWeight:     0.6,
		ResponseTimeWeight:    0.2,
		ResponseTimeCapMs:     30_000,
		HintPenaltyWeight:     0.1,
		MotivationDeltaWeight: 0.1,
	}
}

// Immediate computes the per-event reward in [0,1]: correctness, a
// response-time factor, a hint-usage penalty, and a bonus for any positive
// motivation delta this event produced.
func Immediate(cfg RewardConfig, isCorrect bool, responseTimeMs float64, hintsUsed int, motivationDelta float64) float64 {
	correctness := 0.0
	if isCorrect {
		correctness = 1.0
	}
	rtFactor := 1 - math.Min(1, responseTimeMs/cfg.ResponseTimeCapMs)
	hintPenalty := float64(hintsUsed) * cfg.HintPenaltyWeight
	motivationBonus := cfg.MotivationDeltaWeight * math.Max(0, motivationDelta)

	r := cfg.CorrectnessWeight*correctness + cfg.ResponseTimeWeight*rtFactor - hintPenalty + motivationBonus
	return clampRange(r, 0, 1)
}

// DeferredConfig weights the session-end composite reward.
type DeferredConfig struct {
	RetentionWeight   float64
	CompletionWeight  float64
	FatiguePenalty    float64
}

// DefaultDeferredConfig returns balanced session-level weights.
func DefaultDeferredConfig() DeferredConfig {
	return DeferredConfig{RetentionWeight: 0.5, CompletionWeight: 0.3, FatiguePenalty: 0.2}
}

// Deferred computes the session-end composite: retention-proxy +
// completion-rate − fatigue-penalty, clamped to [0,1].
func Deferred(cfg DeferredConfig, retentionProxy, completionRate, endOfSessionFatigue float64) float64 {
	r := cfg.RetentionWeight*retentionProxy + cfg.CompletionWeight*completionRate - cfg.FatiguePenalty*endOfSessionFatigue
	return clampRange(r, 0, 1)
}

// SessionAccumulator folds per-event immediate rewards into a running
// average the engine can combine with session-end signals once the
// session closes.
type SessionAccumulator struct {
	sum   float64
	count int
}

// Add records one event's immediate reward.
func (s *SessionAccumulator) Add(reward float64) {
	s.sum += reward
	s.count++
}

// CompletionRate is the accumulator's running average, used as the
// completion-rate term in the deferred composite.
func (s *SessionAccumulator) CompletionRate() float64 {
	if s.count == 0 {
		return 0
	}
	return clampRange(s.sum/float64(s.count), 0, 1)
}

// State returns the accumulator's raw (sum, count) pair, for snapshotting.
func (s *SessionAccumulator) State() (sum float64, count int) {
	return s.sum, s.count
}

// Restore replaces the accumulator's state wholesale, for loading a
// snapshot back into a fresh accumulator.
func (s *SessionAccumulator) Restore(sum float64, count int) {
	s.sum = sum
	s.count = count
}
