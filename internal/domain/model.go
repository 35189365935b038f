// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"math"
	"time"
)

// ─── Trend Classification ───────────────────────────────────────────────────

// Trend classifies the slope of a learner's recent mastery scores.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
	TrendStuck
)

// String returns a human-readable trend label.
func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	case TrendStuck:
		return "stuck"
	default:
		return "flat"
	}
}

// ─── Cognitive Profile ──────────────────────────────────────────────────────

// Cognitive holds the three EMA-smoothed cognitive components, each in [0,1].
type Cognitive struct {
	Mem       float64 `json:"mem"`       // accuracy EMA
	Speed     float64 `json:"speed"`     // normalized response-speed EMA
	Stability float64 `json:"stability"` // 1 - normalized accuracy variance
}

// Clamp forces all three components into [0,1].
func (c *Cognitive) Clamp() {
	c.Mem = clamp01(c.Mem)
	c.Speed = clamp01(c.Speed)
	c.Stability = clamp01(c.Stability)
}

// ─── UserState ───────────────────────────────────────────────────────────────

// UserState is the latent cognitive/affective state of a single learner.
// Mutated only by the modeling layer; the decision layer reads it but never
// writes it.
type UserState struct {
	UserID     string    `json:"user_id"`
	Attention  float64   `json:"attention"`  // [0,1]
	Fatigue    float64   `json:"fatigue"`    // [0,1]
	Motivation float64   `json:"motivation"` // [-1,1]
	Cognitive  Cognitive `json:"cognitive"`
	Streak     int       `json:"streak"` // consecutive correct answers, >=0
	Trend      Trend     `json:"trend"`

	// VARK is the per-user learning-style calibration vector
	// (Visual, Auditory, Read-write, Kinesthetic), normalized to sum 1.
	VARK VARKProfile `json:"vark"`

	EventCount int       `json:"event_count"` // total events processed for this user
	LastEvent  time.Time `json:"last_event"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VARKProfile is a normalized 4-vector over learning-style modalities.
type VARKProfile struct {
	Visual      float64 `json:"visual"`
	Auditory    float64 `json:"auditory"`
	ReadWrite   float64 `json:"read_write"`
	Kinesthetic float64 `json:"kinesthetic"`
}

// DefaultVARKProfile returns an uninformative uniform prior.
func DefaultVARKProfile() VARKProfile {
	return VARKProfile{Visual: 0.25, Auditory: 0.25, ReadWrite: 0.25, Kinesthetic: 0.25}
}

// Normalize rescales the profile to sum to 1, guarding against all-zero or
// non-finite input.
func (v *VARKProfile) Normalize() {
	sum := v.Visual + v.Auditory + v.ReadWrite + v.Kinesthetic
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		*v = DefaultVARKProfile()
		return
	}
	v.Visual /= sum
	v.Auditory /= sum
	v.ReadWrite /= sum
	v.Kinesthetic /= sum
}

// NewUserState returns the default seed state for a first-ever event.
func NewUserState(userID string, now time.Time) UserState {
	return UserState{
		UserID:     userID,
		Attention:  0.7,
		Fatigue:    0,
		Motivation: 0,
		Cognitive:  Cognitive{Mem: 0.5, Speed: 0.5, Stability: 0.5},
		Streak:     0,
		Trend:      TrendFlat,
		VARK:       DefaultVARKProfile(),
		UpdatedAt:  now,
	}
}

// Clamp forces every bounded field back into its declared domain. Used as the
// closing step of every modeling update so numerical drift can never leak a
// value outside its domain (clamp-closure invariant).
func (u *UserState) Clamp() {
	u.Attention = clamp01(u.Attention)
	u.Fatigue = clamp01(u.Fatigue)
	u.Motivation = clamp(u.Motivation, -1, 1)
	u.Cognitive.Clamp()
	if u.Streak < 0 {
		u.Streak = 0
	}
	u.VARK.Normalize()
}

// ─── Difficulty & Strategy ───────────────────────────────────────────────────

// Difficulty is one of the three candidate difficulty tiers.
type Difficulty int

const (
	Easy Difficulty = iota
	Mid
	Hard
)

// String returns a human-readable difficulty label.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "mid"
	}
}

// Value returns the scalar feature value LinUCB uses to encode difficulty.
func (d Difficulty) Value() float64 {
	switch d {
	case Easy:
		return 0.3
	case Hard:
		return 0.9
	default:
		return 0.6
	}
}

// StrategyParams is a candidate instructional strategy. Candidate strategy
// sets are always finite enumerations over these five dimensions.
type StrategyParams struct {
	Difficulty    Difficulty `json:"difficulty"`
	NewRatio      float64    `json:"new_ratio"`      // [0,1]
	BatchSize     int        `json:"batch_size"`      // [5,16]
	IntervalScale float64    `json:"interval_scale"` // [0.5,1.5]
	HintLevel     int        `json:"hint_level"`      // {0,1,2}
}

// Clamp forces every field back into its declared domain.
func (s *StrategyParams) Clamp() {
	if s.Difficulty < Easy {
		s.Difficulty = Easy
	}
	if s.Difficulty > Hard {
		s.Difficulty = Hard
	}
	s.NewRatio = clamp01(s.NewRatio)
	if s.BatchSize < 5 {
		s.BatchSize = 5
	}
	if s.BatchSize > 16 {
		s.BatchSize = 16
	}
	s.IntervalScale = clamp(s.IntervalScale, 0.5, 1.5)
	if s.HintLevel < 0 {
		s.HintLevel = 0
	}
	if s.HintLevel > 2 {
		s.HintLevel = 2
	}
}

// DefaultStrategy is the strategy handed out before any learning has
// happened — the "current strategy" an empty-flag-set ensemble falls back to.
func DefaultStrategy() StrategyParams {
	return StrategyParams{
		Difficulty:    Mid,
		NewRatio:      0.3,
		BatchSize:     10,
		IntervalScale: 1.0,
		HintLevel:     1,
	}
}

// ─── Feature Vector ──────────────────────────────────────────────────────────

// ContextDim is the fixed length of a FeatureVector.
const ContextDim = 10

// ActionDim is the fixed length of the action-feature encoding LinUCB appends
// to the context to score a candidate strategy.
const ActionDim = 5

// FeatureVector is a fixed-length, normalized scalar sequence derived from
// UserState plus temporal context for one event. Regenerated each event, and
// never persisted.
type FeatureVector [ContextDim]float64

// ─── Raw Input ───────────────────────────────────────────────────────────────

// RawEvent is one learner interaction: an answer, dwell, pause, or skip.
type RawEvent struct {
	IsCorrect          bool      `json:"is_correct"`
	ResponseTimeMs     float64   `json:"response_time_ms"`
	DwellMs            *float64  `json:"dwell_ms,omitempty"`
	RetryCount         int       `json:"retry_count"`
	HintUsed           bool      `json:"hint_used"`
	PausedMs           *float64  `json:"paused_ms,omitempty"`
	WordID             string    `json:"word_id,omitempty"`
	QuestionType       string    `json:"question_type,omitempty"`
	Confidence         *float64  `json:"confidence,omitempty"`
	PauseCount         int       `json:"pause_count"`
	SwitchCount        int       `json:"switch_count"`
	FocusLossMs        *float64  `json:"focus_loss_ms,omitempty"`
	InteractionDensity *float64  `json:"interaction_density,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
	IsQuit             bool      `json:"is_quit"`
	DeviceType         string    `json:"device_type,omitempty"`
	IsGuess            bool      `json:"is_guess"`
}

// ProcessOptions carries per-call, per-session context that is not part of
// the persisted per-user state.
type ProcessOptions struct {
	SessionID               string   `json:"session_id,omitempty"`
	VisualFatigueScore      *float64 `json:"visual_fatigue_score,omitempty"`
	VisualFatigueConfidence *float64 `json:"visual_fatigue_confidence,omitempty"`
	VisualFatigueRaw        *float64 `json:"visual_fatigue_raw,omitempty"`
	StudyDurationMinutes    *float64 `json:"study_duration_minutes,omitempty"`
	RecentAccuracy          *float64 `json:"recent_accuracy,omitempty"`
	RTCv                    *float64 `json:"rt_cv,omitempty"`
	PaceCv                  *float64 `json:"pace_cv,omitempty"`
}

// ─── Decision Output ─────────────────────────────────────────────────────────

// AlgorithmVote describes one algorithm's contribution to the winning
// strategy's weight, for the ensemble's explanation.
type AlgorithmVote struct {
	ID          string  `json:"id"`
	Weight      float64 `json:"weight"`
	ProposedKey string  `json:"proposed_key"`
}

// Explanation lists every algorithm that proposed the winning strategy.
type Explanation struct {
	Algorithms []AlgorithmVote `json:"algorithms"`
}

// SwdRecommendation is an optional additional-review-count suggestion.
type SwdRecommendation struct {
	RecommendedCount int     `json:"recommended_count"`
	Confidence       float64 `json:"confidence"`
}

// AmasDecision is the chosen strategy plus its provenance.
type AmasDecision struct {
	Strategy       StrategyParams     `json:"strategy"`
	Explanation    Explanation        `json:"explanation"`
	Confidence     float64            `json:"confidence"`
	Recommendation *SwdRecommendation `json:"recommendation,omitempty"`
}

// ─── Clamp helpers ───────────────────────────────────────────────────────────

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
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
