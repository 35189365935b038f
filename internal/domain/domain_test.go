package domain

import (
	"math"
	"testing"
	"time"
)

func TestNewUserState_SeedsMidpointDefaults(t *testing.T) {
	now := time.Now()
	s := NewUserState("u1", now)

	if s.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", s.UserID, "u1")
	}
	if s.Attention != 0.7 {
		t.Errorf("Attention = %v, want 0.7", s.Attention)
	}
	if s.Cognitive.Mem != 0.5 || s.Cognitive.Speed != 0.5 || s.Cognitive.Stability != 0.5 {
		t.Errorf("Cognitive = %+v, want all 0.5", s.Cognitive)
	}
	if s.Trend != TrendFlat {
		t.Errorf("Trend = %v, want TrendFlat", s.Trend)
	}
}

func TestUserState_Clamp_BoundsEveryField(t *testing.T) {
	s := UserState{
		Attention:  2,
		Fatigue:    -1,
		Motivation: 5,
		Cognitive:  Cognitive{Mem: -1, Speed: 2, Stability: math.NaN()},
		Streak:     -3,
		VARK:       VARKProfile{},
	}
	s.Clamp()

	if s.Attention != 1 {
		t.Errorf("Attention = %v, want 1", s.Attention)
	}
	if s.Fatigue != 0 {
		t.Errorf("Fatigue = %v, want 0", s.Fatigue)
	}
	if s.Motivation != 1 {
		t.Errorf("Motivation = %v, want 1", s.Motivation)
	}
	if s.Cognitive.Mem != 0 || s.Cognitive.Speed != 1 || s.Cognitive.Stability != 0 {
		t.Errorf("Cognitive = %+v, want {0 1 0}", s.Cognitive)
	}
	if s.Streak != 0 {
		t.Errorf("Streak = %d, want 0", s.Streak)
	}
	sum := s.VARK.Visual + s.VARK.Auditory + s.VARK.ReadWrite + s.VARK.Kinesthetic
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("VARK should normalize to sum 1 after an all-zero reset, got sum=%v", sum)
	}
}

func TestVARKProfile_Normalize(t *testing.T) {
	v := VARKProfile{Visual: 2, Auditory: 2, ReadWrite: 2, Kinesthetic: 2}
	v.Normalize()
	if v.Visual != 0.25 || v.Auditory != 0.25 || v.ReadWrite != 0.25 || v.Kinesthetic != 0.25 {
		t.Errorf("Normalize() = %+v, want all 0.25", v)
	}
}

func TestVARKProfile_Normalize_HandlesZeroSum(t *testing.T) {
	v := VARKProfile{}
	v.Normalize()
	want := DefaultVARKProfile()
	if v != want {
		t.Errorf("Normalize() of a zero profile = %+v, want %+v", v, want)
	}
}

func TestDifficulty_StringAndValue(t *testing.T) {
	cases := []struct {
		d     Difficulty
		label string
		value float64
	}{
		{Easy, "easy", 0.3},
		{Mid, "mid", 0.6},
		{Hard, "hard", 0.9},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.label {
			t.Errorf("Difficulty(%d).String() = %q, want %q", c.d, got, c.label)
		}
		if got := c.d.Value(); got != c.value {
			t.Errorf("Difficulty(%d).Value() = %v, want %v", c.d, got, c.value)
		}
	}
}

func TestStrategyParams_Clamp(t *testing.T) {
	s := StrategyParams{
		Difficulty:    Difficulty(99),
		NewRatio:      2,
		BatchSize:     100,
		IntervalScale: 10,
		HintLevel:     9,
	}
	s.Clamp()

	if s.Difficulty != Hard {
		t.Errorf("Difficulty = %v, want Hard", s.Difficulty)
	}
	if s.NewRatio != 1 {
		t.Errorf("NewRatio = %v, want 1", s.NewRatio)
	}
	if s.BatchSize != 16 {
		t.Errorf("BatchSize = %d, want 16", s.BatchSize)
	}
	if s.IntervalScale != 1.5 {
		t.Errorf("IntervalScale = %v, want 1.5", s.IntervalScale)
	}
	if s.HintLevel != 2 {
		t.Errorf("HintLevel = %d, want 2", s.HintLevel)
	}
}

func TestStrategyParams_Clamp_LowerBounds(t *testing.T) {
	s := StrategyParams{Difficulty: Difficulty(-5), NewRatio: -1, BatchSize: 0, IntervalScale: 0, HintLevel: -1}
	s.Clamp()

	if s.Difficulty != Easy {
		t.Errorf("Difficulty = %v, want Easy", s.Difficulty)
	}
	if s.NewRatio != 0 {
		t.Errorf("NewRatio = %v, want 0", s.NewRatio)
	}
	if s.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want 5", s.BatchSize)
	}
	if s.IntervalScale != 0.5 {
		t.Errorf("IntervalScale = %v, want 0.5", s.IntervalScale)
	}
	if s.HintLevel != 0 {
		t.Errorf("HintLevel = %d, want 0", s.HintLevel)
	}
}

func TestDefaultStrategy_IsAlreadyInDomain(t *testing.T) {
	s := DefaultStrategy()
	clamped := s
	clamped.Clamp()
	if clamped != s {
		t.Errorf("DefaultStrategy() = %+v is not a fixed point of Clamp(), got %+v", s, clamped)
	}
}
