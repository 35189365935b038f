package decision

import "github.com/tutu-network/amas/internal/domain"

// ColdStartConfig sets the event-count threshold before control yields to
// the ensemble.
type ColdStartConfig struct {
	NMin int
}

// DefaultColdStartConfig returns a short scripted-probe phase.
func DefaultColdStartConfig() ColdStartConfig {
	return ColdStartConfig{NMin: 8}
}

// ColdStartManager forces a scripted probe sequence through the strategy
// space for a new user's first few events, so every algorithm's statistics
// start from some real observations rather than an uninformative prior
// alone.
type ColdStartManager struct {
	cfg   ColdStartConfig
	probe []domain.StrategyParams
}

// NewColdStartManager builds the scripted probe sequence: four fixed
// entries spanning the easy, mid and hard tiers and hint levels 0 to 2,
// used before the ensemble takes over.
func NewColdStartManager(cfg ColdStartConfig) *ColdStartManager {
	probe := []domain.StrategyParams{
		{Difficulty: domain.Easy, NewRatio: 0.5, BatchSize: 8, IntervalScale: 1.0, HintLevel: 1},
		{Difficulty: domain.Mid, NewRatio: 0.3, BatchSize: 10, IntervalScale: 1.0, HintLevel: 0},
		{Difficulty: domain.Hard, NewRatio: 0.2, BatchSize: 6, IntervalScale: 0.8, HintLevel: 2},
		{Difficulty: domain.Mid, NewRatio: 0.4, BatchSize: 12, IntervalScale: 1.2, HintLevel: 1},
	}
	return &ColdStartManager{cfg: cfg, probe: probe}
}

// Active reports whether the user is still within the scripted-probe phase.
func (c *ColdStartManager) Active(eventCount int) bool {
	return eventCount < c.cfg.NMin
}

// Probe returns the scripted strategy for this event count, clamped to a
// candidate set when the probe's own output isn't itself a legal
// candidate. Cycles through the probe sequence when eventCount exceeds its
// length (the default NMin of 8 runs the four probes twice).
func (c *ColdStartManager) Probe(eventCount int, candidates []domain.StrategyParams) (domain.StrategyParams, bool) {
	if len(candidates) == 0 {
		return domain.StrategyParams{}, false
	}
	idx := eventCount % len(c.probe)
	want := Key(c.probe[idx])
	for _, cand := range candidates {
		if Key(cand) == want {
			return cand, true
		}
	}
	// Scripted strategy isn't in the candidate set verbatim; fall back to
	// the first candidate, preserving determinism.
	return candidates[0], true
}
