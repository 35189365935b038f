package vocabulary

import "testing"

func TestMTPBonus_Empty(t *testing.T) {
	if b := MTPBonus(nil); b != 0 {
		t.Fatalf("expected 0 bonus for no morphemes, got %v", b)
	}
}

func TestMTPBonus_Single(t *testing.T) {
	b := MTPBonus([]MorphemeState{{MorphemeID: "pre", MasteryLevel: 5}})
	if b != mtpAlpha {
		t.Fatalf("expected bonus = alpha (%v), got %v", mtpAlpha, b)
	}
}

func TestMTPBonus_CapsAtMax(t *testing.T) {
	states := make([]MorphemeState, 10)
	for i := range states {
		states[i] = MorphemeState{MorphemeID: "m", MasteryLevel: 5}
	}
	b := MTPBonus(states)
	if b != mtpMaxBonus {
		t.Fatalf("expected bonus capped at %v, got %v", mtpMaxBonus, b)
	}
}

func TestIADPenalty_NoConfusion(t *testing.T) {
	if p := IADPenalty(nil, []string{"word1"}); p != 0 {
		t.Fatalf("expected 0 penalty with no confusion pairs, got %v", p)
	}
}

func TestIADPenalty_NoRecentWords(t *testing.T) {
	pairs := []ConfusionPair{{ConfusingWordID: "word1", Distance: 0.5}}
	if p := IADPenalty(pairs, nil); p != 0 {
		t.Fatalf("expected 0 penalty with no recent words, got %v", p)
	}
}

func TestIADPenalty_SingleMatch(t *testing.T) {
	pairs := []ConfusionPair{{ConfusingWordID: "word1", Distance: 0}}
	p := IADPenalty(pairs, []string{"word1"})
	if p <= 0 || p > iadMaxPenalty {
		t.Fatalf("expected penalty in (0, max], got %v", p)
	}
}

func TestIADPenalty_DistanceReducesPenalty(t *testing.T) {
	close := IADPenalty([]ConfusionPair{{ConfusingWordID: "word1", Distance: 0}}, []string{"word1"})
	far := IADPenalty([]ConfusionPair{{ConfusingWordID: "word1", Distance: 0.9}}, []string{"word1"})
	if !(close > far) {
		t.Fatalf("expected closer confusion distance to produce a larger penalty: %v vs %v", close, far)
	}
}

func TestEVMBonus_EmptyHistory(t *testing.T) {
	if b := EVMBonus(nil); b != 0 {
		t.Fatalf("expected 0 bonus for empty history, got %v", b)
	}
}

func TestEVMBonus_SingleEntryIsZero(t *testing.T) {
	history := []ContextEntry{{HourOfDay: 10, DayOfWeek: 1, QuestionType: "multiple_choice", DeviceType: "desktop"}}
	if b := EVMBonus(history); b != 0 {
		t.Fatalf("expected 0 variability bonus from a single entry, got %v", b)
	}
}

func TestEVMBonus_VariedContextsIsPositive(t *testing.T) {
	history := []ContextEntry{
		{HourOfDay: 8, DayOfWeek: 1, QuestionType: "multiple_choice", DeviceType: "desktop"},
		{HourOfDay: 14, DayOfWeek: 3, QuestionType: "spelling", DeviceType: "mobile"},
		{HourOfDay: 20, DayOfWeek: 5, QuestionType: "listening", DeviceType: "tablet"},
	}
	b := EVMBonus(history)
	if b <= 0 || b > evmMaxBonus {
		t.Fatalf("expected bonus in (0, max], got %v", b)
	}
}
