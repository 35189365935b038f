package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tutu-network/amas/internal/domain"
)

// fixedRNG is a deterministic stand-in for the production clock-seeded RNG.
type fixedRNG struct {
	values []float64
	i      int
}

func (r *fixedRNG) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

// manualClock is a controllable domain.Clock for deterministic tests.
type manualClock struct {
	now time.Time
}

func (c *manualClock) NowMs() int64           { return c.now.UnixMilli() }
func (c *manualClock) NowTimestamp() time.Time { return c.now }
func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// memStore is a minimal in-memory domain.SnapshotStore for tests, standing
// in for the persistence adapter implemented in internal/store.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) LoadState(_ context.Context, userID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return blob, nil
}

func (s *memStore) SaveState(_ context.Context, userID string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = snapshot
	return nil
}

func newTestEngine() (*Engine, *memStore, *manualClock) {
	store := newMemStore()
	clock := &manualClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	rng := &fixedRNG{values: []float64{0.1, 0.4, 0.6, 0.9}}
	return New(DefaultConfig(), store, clock, rng, nil), store, clock
}

func correctEvent(wordID string, rtMs float64, ts time.Time) domain.RawEvent {
	return domain.RawEvent{
		IsCorrect:      true,
		ResponseTimeMs: rtMs,
		WordID:         wordID,
		QuestionType:   "fill_blank",
		DeviceType:     "mobile",
		Timestamp:      ts,
	}
}

func TestProcessEvent_NewUserGetsColdStartProbe(t *testing.T) {
	e, _, clock := newTestEngine()
	out, err := e.ProcessEvent(context.Background(), "u1", correctEvent("w1", 2000, clock.now), domain.ProcessOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Explanation.Algorithms) != 1 || out.Explanation.Algorithms[0].ID != coldStartAlgorithmID {
		t.Fatalf("expected a cold-start probe decision, got %+v", out.Explanation)
	}
	if out.Confidence != 1 {
		t.Fatalf("expected cold-start confidence 1, got %v", out.Confidence)
	}
}

func TestProcessEvent_EnsembleTakesOverAfterColdStart(t *testing.T) {
	e, _, clock := newTestEngine()
	ctx := context.Background()

	var out domain.AmasDecision
	var err error
	for i := 0; i < DefaultConfig().ColdStart.NMin+2; i++ {
		clock.advance(time.Minute)
		out, err = e.ProcessEvent(ctx, "u2", correctEvent("w1", 1500, clock.now), domain.ProcessOptions{})
		if err != nil {
			t.Fatalf("event %d: unexpected error: %v", i, err)
		}
	}
	if len(out.Explanation.Algorithms) == 0 || out.Explanation.Algorithms[0].ID == coldStartAlgorithmID {
		t.Fatalf("expected an ensemble decision once past cold start, got %+v", out.Explanation)
	}
}

func TestProcessEvent_PersistsAndReloadsState(t *testing.T) {
	e, store, clock := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clock.advance(time.Minute)
		if _, err := e.ProcessEvent(ctx, "u3", correctEvent("w1", 1800, clock.now), domain.ProcessOptions{}); err != nil {
			t.Fatalf("event %d: unexpected error: %v", i, err)
		}
	}

	blob, err := store.LoadState(ctx, "u3")
	if err != nil {
		t.Fatalf("expected persisted snapshot, got error: %v", err)
	}
	snap, err := UnmarshalSnapshot("u3", blob)
	if err != nil {
		t.Fatalf("unexpected corrupt snapshot: %v", err)
	}
	if snap.UserState.EventCount != 3 {
		t.Fatalf("expected event count 3, got %d", snap.UserState.EventCount)
	}
	if snap.UserState.Streak != 3 {
		t.Fatalf("expected streak 3 after three correct answers, got %d", snap.UserState.Streak)
	}

	// A fresh engine sharing the store picks up where the first left off.
	e2 := New(DefaultConfig(), store, clock, &fixedRNG{values: []float64{0.2}}, nil)
	clock.advance(time.Minute)
	if _, err := e2.ProcessEvent(ctx, "u3", correctEvent("w1", 1800, clock.now), domain.ProcessOptions{}); err != nil {
		t.Fatalf("unexpected error on reloaded engine: %v", err)
	}
	blob2, err := store.LoadState(ctx, "u3")
	if err != nil {
		t.Fatalf("expected persisted snapshot: %v", err)
	}
	snap2, err := UnmarshalSnapshot("u3", blob2)
	if err != nil {
		t.Fatalf("unexpected corrupt snapshot: %v", err)
	}
	if snap2.UserState.EventCount != 4 {
		t.Fatalf("expected event count to continue at 4, got %d", snap2.UserState.EventCount)
	}
}

func TestProcessEvent_CancelledContextBeforeStart(t *testing.T) {
	e, _, clock := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ProcessEvent(ctx, "u4", correctEvent("w1", 1500, clock.now), domain.ProcessOptions{})
	if err == nil {
		t.Fatalf("expected a cancellation error")
	}
}

func TestProcessEvent_IncorrectAnswerResetsStreak(t *testing.T) {
	e, _, clock := newTestEngine()
	ctx := context.Background()

	clock.advance(time.Minute)
	if _, err := e.ProcessEvent(ctx, "u5", correctEvent("w1", 1500, clock.now), domain.ProcessOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(time.Minute)
	incorrect := correctEvent("w1", 1500, clock.now)
	incorrect.IsCorrect = false
	if _, err := e.ProcessEvent(ctx, "u5", incorrect, domain.ProcessOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.cacheMu.Lock()
	b := e.cache["u5"]
	e.cacheMu.Unlock()
	if b.state.Streak != 0 {
		t.Fatalf("expected streak reset to 0 after an incorrect answer, got %d", b.state.Streak)
	}
}

func TestProcessEvent_SanitizesNegativeResponseTime(t *testing.T) {
	e, _, clock := newTestEngine()
	ev := correctEvent("w1", -500, clock.now)
	if _, err := e.ProcessEvent(context.Background(), "u6", ev, domain.ProcessOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProcessEvent_NoRecommendationDuringColdStart(t *testing.T) {
	e, _, clock := newTestEngine()
	out, err := e.ProcessEvent(context.Background(), "u9", correctEvent("w1", 1500, clock.now), domain.ProcessOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Recommendation != nil {
		t.Fatalf("expected no recommendation during cold start (SWD history still empty), got %+v", out.Recommendation)
	}
}

func TestProcessEvent_DisablingAllAlgorithmsFallsBackToLastChosenStrategy(t *testing.T) {
	e, _, clock := newTestEngine()
	ctx := context.Background()
	userID := "u7"

	var out domain.AmasDecision
	var err error
	for i := 0; i < DefaultConfig().ColdStart.NMin+3; i++ {
		clock.advance(time.Minute)
		out, err = e.ProcessEvent(ctx, userID, correctEvent("w1", 1500, clock.now), domain.ProcessOptions{})
		if err != nil {
			t.Fatalf("event %d: unexpected error: %v", i, err)
		}
	}
	lastStrategy := out.Strategy

	e.cfg.EnabledAlgorithms = map[string]bool{
		"linucb": false, "thompson": false, "swd": false, "ige": false, "heuristic": false,
	}

	clock.advance(time.Minute)
	out, err = e.ProcessEvent(ctx, userID, correctEvent("w1", 1500, clock.now), domain.ProcessOptions{})
	if err != nil {
		t.Fatalf("unexpected error with every algorithm disabled: %v", err)
	}
	if out.Strategy != lastStrategy {
		t.Fatalf("expected disabling every algorithm to fall back to the last chosen strategy %+v, got %+v", lastStrategy, out.Strategy)
	}
}

func TestEngine_EndSession_AppliesDeferredRewardAndResetsAccumulator(t *testing.T) {
	e, store, clock := newTestEngine()
	ctx := context.Background()
	userID := "u8"

	for i := 0; i < 5; i++ {
		clock.advance(time.Minute)
		if _, err := e.ProcessEvent(ctx, userID, correctEvent("w1", 1500, clock.now), domain.ProcessOptions{}); err != nil {
			t.Fatalf("event %d: unexpected error: %v", i, err)
		}
	}

	reward, err := e.EndSession(ctx, userID, 0.8, 0.2)
	if err != nil {
		t.Fatalf("EndSession returned error: %v", err)
	}
	if reward < 0 || reward > 1 {
		t.Fatalf("expected deferred reward in [0,1], got %v", reward)
	}

	blob, err := store.LoadState(ctx, userID)
	if err != nil {
		t.Fatalf("expected persisted snapshot after EndSession: %v", err)
	}
	snap, err := UnmarshalSnapshot(userID, blob)
	if err != nil {
		t.Fatalf("unexpected corrupt snapshot: %v", err)
	}
	if snap.Ensemble.SessionCount != 0 || snap.Ensemble.SessionSum != 0 {
		t.Fatalf("expected session accumulator reset after EndSession, got sum=%v count=%d", snap.Ensemble.SessionSum, snap.Ensemble.SessionCount)
	}
}

func TestEngine_EndSession_CancelledContext(t *testing.T) {
	e, _, clock := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.ProcessEvent(context.Background(), "u10", correctEvent("w1", 1500, clock.now), domain.ProcessOptions{}); err != nil {
		t.Fatalf("unexpected error priming user: %v", err)
	}
	if _, err := e.EndSession(ctx, "u10", 0.5, 0.5); err == nil {
		t.Fatalf("expected a cancellation error")
	}
}

func TestCandidateSet_DeterministicAndClamped(t *testing.T) {
	a := CandidateSet()
	b := CandidateSet()
	if len(a) != 27 {
		t.Fatalf("expected 27 candidates, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candidate set is not deterministic at index %d", i)
		}
		if a[i].BatchSize < 5 || a[i].BatchSize > 16 {
			t.Fatalf("candidate %d batch size out of domain: %+v", i, a[i])
		}
	}
}
