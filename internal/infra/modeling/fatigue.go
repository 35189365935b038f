package modeling

import "math"

// FatigueConfig configures the behavioral fatigue recurrence and its fusion
// with an optional visual (PERCLOS/blink-derived) fatigue signal.
type FatigueConfig struct {
	DecayK           float64 // exponential decay constant applied every event
	ErrorTrendWeight float64 // β
	RTIncreaseWeight float64 // γ
	RepeatErrWeight  float64 // δ
	LongBreakMinutes float64 // a break of at least this long resets F to 0

	// VisualConfidenceFloor is the minimum external confidence required
	// before the visual signal is blended in at all.
	VisualConfidenceFloor float64
	BehavioralWeight      float64 // weight on F when fusing
	VisualWeight          float64 // weight on F_visual when fusing
	TemporalWeight        float64 // weight on F_temporal(duration) when fusing
	TemporalRate          float64 // decay rate inside F_temporal
	TemporalGraceMinutes  float64 // minutes before F_temporal starts rising
}

// DefaultFatigueConfig returns baseline defaults.
func DefaultFatigueConfig() FatigueConfig {
	return FatigueConfig{
		DecayK:                0.05,
		ErrorTrendWeight:      0.3,
		RTIncreaseWeight:      0.2,
		RepeatErrWeight:       0.2,
		LongBreakMinutes:      30,
		VisualConfidenceFloor: 0.2,
		BehavioralWeight:      0.4,
		VisualWeight:          0.4,
		TemporalWeight:        0.2,
		TemporalRate:          0.05,
		TemporalGraceMinutes:  30,
	}
}

// BehavioralInputs are the per-event signals feeding the behavioral fatigue
// recurrence.
type BehavioralInputs struct {
	ErrorTrend         float64 // positive when error rate is rising
	RTIncrease         float64 // positive when response time is rising
	RepeatErrors       int     // errors on the same item/skill in a row
	MinutesSinceLast   float64 // elapsed minutes since the previous event
	HasPriorEvent      bool
}

// UpdateBehavioral applies the per-event behavioral fatigue recurrence,
// including the long-break reset.
func UpdateBehavioral(cfg FatigueConfig, prevF float64, in BehavioralInputs) float64 {
	if in.HasPriorEvent && in.MinutesSinceLast >= cfg.LongBreakMinutes {
		return 0
	}
	decayed := prevF * math.Exp(-cfg.DecayK)
	errTerm := cfg.ErrorTrendWeight * math.Max(0, in.ErrorTrend)
	rtTerm := cfg.RTIncreaseWeight * math.Max(0, in.RTIncrease)
	repeatTerm := cfg.RepeatErrWeight * math.Min(1, float64(in.RepeatErrors)/5)
	f := decayed + errTerm + rtTerm + repeatTerm
	return clamp01(f)
}

// TemporalFatigue computes F_temporal(duration) — the session-length
// contribution to fused fatigue, flat until TemporalGraceMinutes then rising
// toward 1.
func TemporalFatigue(cfg FatigueConfig, studyMinutes float64) float64 {
	over := math.Max(0, studyMinutes-cfg.TemporalGraceMinutes)
	return 1 - math.Exp(-cfg.TemporalRate*over)
}

// Fuse combines behavioral fatigue with an optional visual signal. When
// visualConfidence is below VisualConfidenceFloor, or no visual reading is
// available, the behavioral value passes through unchanged.
func Fuse(cfg FatigueConfig, behavioral float64, visual *float64, visualConfidence *float64, studyMinutes float64) float64 {
	if visual == nil || visualConfidence == nil || *visualConfidence < cfg.VisualConfidenceFloor {
		return behavioral
	}
	fTemporal := TemporalFatigue(cfg, studyMinutes)
	fused := cfg.BehavioralWeight*behavioral + cfg.VisualWeight*clamp01(*visual) + cfg.TemporalWeight*fTemporal
	return clamp01(fused)
}
