package decision

import (
	"math"
	"sort"
	"sync"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/linalg"
)

const (
	swdHistoryCap = 200
	swdGamma      = 0.5
)

// swdEntry is one recorded (context, strategy, reward) observation.
type swdEntry struct {
	context domain.FeatureVector
	strategy domain.StrategyParams
	reward  float64
}

// SWD is the Similarity-Weighted Decision algorithm: a
// cosine-similarity k-NN over a bounded recent history, rank-decayed so
// older observations count for less.
type SWD struct {
	mu      sync.Mutex
	history []swdEntry // ring buffer, oldest first
}

// NewSWD creates an empty history.
func NewSWD() *SWD {
	return &SWD{history: make([]swdEntry, 0, swdHistoryCap)}
}

// ID identifies this algorithm in ensemble explanations.
func (s *SWD) ID() string { return "swd" }

// Select scores every candidate by its similarity-and-recency weighted
// average reward in history; cold start (empty history) returns the first
// candidate. Ties are broken by lexicographic strategy key.
func (s *SWD) Select(_ domain.UserState, features domain.FeatureVector, candidates []domain.StrategyParams) (domain.StrategyParams, bool) {
	if len(candidates) == 0 {
		return domain.StrategyParams{}, false
	}

	s.mu.Lock()
	empty := len(s.history) == 0
	scores := make(map[string]float64, len(candidates))
	if !empty {
		for _, c := range candidates {
			scores[Key(c)] = s.score(features, c)
		}
	}
	s.mu.Unlock()

	if empty {
		return candidates[0], true
	}

	sorted := append([]domain.StrategyParams(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return Key(sorted[i]) < Key(sorted[j]) })

	best := sorted[0]
	bestScore := math.Inf(-1)
	for _, c := range sorted {
		sc := scores[Key(c)]
		if sc > bestScore {
			bestScore = sc
			best = c
		}
	}
	return best, true
}

// score computes Σ w_i·r_i / Σ w_i over history entries matching the
// candidate strategy, w_i = ((cos+1)/2)·γ^rank_i with rank 0 = newest.
func (s *SWD) score(features domain.FeatureVector, candidate domain.StrategyParams) float64 {
	key := Key(candidate)
	n := len(s.history)
	var weightedSum, weightSum float64
	for i, e := range s.history {
		if Key(e.strategy) != key {
			continue
		}
		rank := n - 1 - i // 0 = newest
		cos := linalg.CosineSimilarity(features[:], e.context[:])
		w := ((cos + 1) / 2) * math.Pow(swdGamma, float64(rank))
		weightedSum += w * e.reward
		weightSum += w
	}
	if weightSum <= 0 {
		return 0
	}
	return weightedSum / weightSum
}

// Update records the observation, evicting the oldest entry once at
// capacity.
func (s *SWD) Update(features domain.FeatureVector, chosen domain.StrategyParams, reward float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, swdEntry{context: features, strategy: chosen, reward: reward})
	if len(s.history) > swdHistoryCap {
		s.history = s.history[len(s.history)-swdHistoryCap:]
	}
}

// Confidence rises with the number of matching history entries:
// clamp(1 − 1/(1+count/5), 0.4, 0.98).
func (s *SWD) Confidence(_ domain.FeatureVector, strategy domain.StrategyParams) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Key(strategy)
	count := 0
	for _, e := range s.history {
		if Key(e.strategy) == key {
			count++
		}
	}
	c := 1 - 1/(1+float64(count)/5)
	return linalg.Clamp(c, 0.4, 0.98)
}

// EntryState is one exported SWD history record, for snapshotting.
type EntryState struct {
	Context  domain.FeatureVector  `json:"context"`
	Strategy domain.StrategyParams `json:"strategy"`
	Reward   float64               `json:"reward"`
}

// Export returns the history oldest-first.
func (s *SWD) Export() []EntryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EntryState, len(s.history))
	for i, e := range s.history {
		out[i] = EntryState{Context: e.context, Strategy: e.strategy, Reward: e.reward}
	}
	return out
}

// Import replaces the history, truncating to the most recent
// swdHistoryCap entries if the snapshot is over capacity.
func (s *SWD) Import(entries []EntryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(entries) > swdHistoryCap {
		entries = entries[len(entries)-swdHistoryCap:]
	}
	s.history = make([]swdEntry, len(entries))
	for i, e := range entries {
		s.history[i] = swdEntry{context: e.Context, strategy: e.Strategy, reward: e.Reward}
	}
}

// RecommendAdditionalCount suggests an additional-review-count for the given
// context, independent of any one candidate strategy: every history entry
// contributes Σ w_i·r_i / Σ w_i weighted by the same similarity-and-recency
// term score uses, but unlike score it is never restricted to entries that
// share a strategy key — the recommendation reasons about "how is this
// learner doing in contexts like this one", not "how did this one strategy
// do". Returns false when there is no history yet or the weighted average
// comes out non-positive.
func (s *SWD) RecommendAdditionalCount(context domain.FeatureVector) (domain.SwdRecommendation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if n == 0 {
		return domain.SwdRecommendation{}, false
	}

	var weightedSum, weightSum float64
	for i, e := range s.history {
		rank := n - 1 - i
		cos := linalg.CosineSimilarity(context[:], e.context[:])
		w := ((cos + 1) / 2) * math.Pow(swdGamma, float64(rank))
		weightedSum += w * e.reward
		weightSum += w
	}
	if weightSum <= 0 {
		return domain.SwdRecommendation{}, false
	}

	avg := weightedSum / weightSum
	recommended := int(math.Round(avg * 10))
	if recommended <= 0 {
		return domain.SwdRecommendation{}, false
	}

	confidence := 1 - 1/(1+float64(n)/5)
	confidence = linalg.Clamp(confidence, 0.4, 0.98)

	return domain.SwdRecommendation{RecommendedCount: recommended, Confidence: confidence}, true
}
