package memory

import (
	"math"
	"testing"
)

func TestRetrievability_AtZeroElapsedIsOne(t *testing.T) {
	if r := Retrievability(0.1, 0); r != 1 {
		t.Fatalf("R(0) = %v, want 1", r)
	}
}

func TestQuality_IncorrectIsZero(t *testing.T) {
	if q := Quality(false, 100, 0); q != 0 {
		t.Fatalf("quality on incorrect = %v, want 0", q)
	}
}

func TestQuality_FastNoHintsIsHigh(t *testing.T) {
	q := Quality(true, 500, 0)
	if q < 0.7 {
		t.Fatalf("expected high quality for a fast, hint-free correct answer, got %v", q)
	}
}

func TestUpdate_StrengthGrowsTowardMax(t *testing.T) {
	cfg := DefaultMDMConfig()
	s := NewItemState(0)
	for i := 0; i < 20; i++ {
		s = Update(cfg, s, 0.9, int64(i+1))
	}
	if s.Strength <= cfg.StrengthMin {
		t.Fatalf("expected strength to grow, got %v", s.Strength)
	}
	if s.Strength > cfg.StrengthMax {
		t.Fatalf("strength escaped max: %v", s.Strength)
	}
}

func TestIntervalForTarget_ClampedToRange(t *testing.T) {
	cfg := DefaultMDMConfig()
	days := IntervalForTarget(cfg, 0.001, 0.97)
	if days < cfg.MinIntervalDays || days > cfg.MaxIntervalDays {
		t.Fatalf("interval out of range: %v", days)
	}
}

func TestIntervalForTarget_ZeroLambdaReturnsMax(t *testing.T) {
	cfg := DefaultMDMConfig()
	if days := IntervalForTarget(cfg, 0, 0.9); days != cfg.MaxIntervalDays {
		t.Fatalf("expected max interval at zero decay, got %v", days)
	}
}

func TestCombined_RecentCorrectDominates(t *testing.T) {
	cfg := DefaultMSMTConfig()
	tr := NewTrace(cfg)
	tr.Push(TraceEvent{TimestampHours: 0, IsCorrect: true})
	recent := Combined(tr, cfg, 1)

	tr2 := NewTrace(cfg)
	tr2.Push(TraceEvent{TimestampHours: 0, IsCorrect: false})
	stale := Combined(tr2, cfg, 1)

	if recent <= stale {
		t.Fatalf("expected recent correct trace to exceed stale incorrect trace: %v vs %v", recent, stale)
	}
}

func TestTrace_BoundedCapacity(t *testing.T) {
	cfg := DefaultMSMTConfig()
	cfg.Capacity = 3
	tr := NewTrace(cfg)
	for i := 0; i < 10; i++ {
		tr.Push(TraceEvent{TimestampHours: float64(i), IsCorrect: true})
	}
	if len(tr.Events) != 3 {
		t.Fatalf("expected trace capped at 3, got %d", len(tr.Events))
	}
	if tr.Events[0].TimestampHours != 7 {
		t.Fatalf("expected oldest events evicted, got first=%v", tr.Events[0].TimestampHours)
	}
}

func TestRecallProbability_MonotoneInCombined(t *testing.T) {
	cfg := DefaultMSMTConfig()
	low := RecallProbability(cfg, 0.0)
	high := RecallProbability(cfg, 1.0)
	if !(high > low) {
		t.Fatalf("expected recall probability to rise with combined trace: %v vs %v", low, high)
	}
}

func TestDynamicTarget_BoundsRespected(t *testing.T) {
	cfg := DefaultRTargetConfig()
	for _, burden := range []float64{0, 0.5, 1, 3} {
		target := DynamicTarget(cfg, burden)
		if target < cfg.MinTarget || target > cfg.MaxTarget {
			t.Fatalf("target out of range for burden %v: %v", burden, target)
		}
	}
}

func TestBurden_ZeroTargetIsSafe(t *testing.T) {
	b := Burden(10, 0, 10, 0)
	if math.IsNaN(b) || math.IsInf(b, 0) {
		t.Fatalf("burden with zero targets produced non-finite value: %v", b)
	}
}

func TestMasteryScore_Bounded(t *testing.T) {
	cfg := DefaultMasteryConfig()
	score := Score(cfg, 1.0, 1.0, 0, 50, "up")
	if score < 0 || score > 1 {
		t.Fatalf("mastery score out of [0,1]: %v", score)
	}
}

func TestMasteryDeclared_CrossesCap(t *testing.T) {
	if !Declared(0.92, 0.9) {
		t.Fatalf("expected mastery declared above cap")
	}
	if Declared(0.5, 0.9) {
		t.Fatalf("expected mastery not declared below cap")
	}
}
