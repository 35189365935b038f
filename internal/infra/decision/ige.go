package decision

import (
	"math"
	"sort"
	"sync"

	"github.com/tutu-network/amas/internal/domain"
)

// welfordStats tracks running mean/variance via Welford's online algorithm.
type welfordStats struct {
	count int
	mean  float64
	m2    float64
}

func (w *welfordStats) update(reward float64) {
	w.count++
	delta := reward - w.mean
	w.mean += delta / float64(w.count)
	delta2 := reward - w.mean
	w.m2 += delta * delta2
}

func (w *welfordStats) variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count-1)
}

const (
	igeDefaultMean     = 0.5
	igeDefaultVariance = 0.25
	igeGlobalWeight    = 0.3
	igeContextWeight   = 0.7
	igeExplorationGain = 1.0
)

// IGE is the Information-Gain Exploration algorithm: it layers
// strategy-global statistics with statistics conditioned on a coarsened
// context bucket, favoring strategies that are both good on average and
// uncertain enough to be worth exploring.
type IGE struct {
	mu      sync.Mutex
	global  map[string]*welfordStats // strategyKey -> stats
	context map[string]*welfordStats // contextBucket|strategyKey -> stats
}

// NewIGE creates an empty statistics table.
func NewIGE() *IGE {
	return &IGE{global: make(map[string]*welfordStats), context: make(map[string]*welfordStats)}
}

// contextBucket coarsens the continuous feature vector into a small number
// of buckets per dimension so context-conditioned statistics accumulate
// enough samples to be useful.
func contextBucket(features domain.FeatureVector) string {
	buf := make([]byte, 0, domain.ContextDim)
	for _, v := range features {
		tier := int(math.Round(linalgClamp01(v) * 3)) // 0..3
		buf = append(buf, byte('0'+tier))
	}
	return string(buf)
}

func linalgClamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (ige *IGE) statsFor(m map[string]*welfordStats, key string) *welfordStats {
	if s, ok := m[key]; ok {
		return s
	}
	s := &welfordStats{}
	m[key] = s
	return s
}

// ID identifies this algorithm in ensemble explanations.
func (ige *IGE) ID() string { return "ige" }

// Select combines global and context-conditioned mean/variance into an
// exploration-weighted score and returns the deterministic argmax,
// lexicographically tie-broken.
func (ige *IGE) Select(_ domain.UserState, features domain.FeatureVector, candidates []domain.StrategyParams) (domain.StrategyParams, bool) {
	if len(candidates) == 0 {
		return domain.StrategyParams{}, false
	}

	ige.mu.Lock()
	defer ige.mu.Unlock()

	bucket := contextBucket(features)
	sorted := append([]domain.StrategyParams(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return Key(sorted[i]) < Key(sorted[j]) })

	best := sorted[0]
	bestScore := math.Inf(-1)
	for _, c := range sorted {
		key := Key(c)
		muG, sigmaG := ige.lookup(ige.global, key)
		muC, sigmaC := ige.lookup(ige.context, bucket+"|"+key)

		mu := igeContextWeight*muC + igeGlobalWeight*muG
		sigma2 := igeContextWeight*sigmaC + igeGlobalWeight*sigmaG
		score := mu + igeExplorationGain*math.Sqrt(math.Max(0, sigma2))
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best, true
}

func (ige *IGE) lookup(m map[string]*welfordStats, key string) (mean, variance float64) {
	s, ok := m[key]
	if !ok || s.count == 0 {
		return igeDefaultMean, igeDefaultVariance
	}
	return s.mean, s.variance()
}

// Update feeds the reward into both the global and this event's
// context-conditioned statistics. The context bucket used at update time
// must match the one from the corresponding Select call, so the engine
// passes the same features both times.
func (ige *IGE) Update(features domain.FeatureVector, chosen domain.StrategyParams, reward float64) {
	ige.mu.Lock()
	defer ige.mu.Unlock()
	key := Key(chosen)
	bucket := contextBucket(features)
	ige.statsFor(ige.global, key).update(reward)
	ige.statsFor(ige.context, bucket+"|"+key).update(reward)
}

// StatState is one exported statistics bucket, for snapshotting.
type StatState struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"`
}

// Export returns the global and context-conditioned statistics tables.
func (ige *IGE) Export() (global, context []StatState) {
	ige.mu.Lock()
	defer ige.mu.Unlock()
	global = exportStats(ige.global)
	context = exportStats(ige.context)
	return
}

func exportStats(m map[string]*welfordStats) []StatState {
	out := make([]StatState, 0, len(m))
	for k, s := range m {
		out = append(out, StatState{Key: k, Count: s.count, Mean: s.mean, M2: s.m2})
	}
	return out
}

// Import replaces both statistics tables.
func (ige *IGE) Import(global, context []StatState) {
	ige.mu.Lock()
	defer ige.mu.Unlock()
	ige.global = importStats(global)
	ige.context = importStats(context)
}

func importStats(states []StatState) map[string]*welfordStats {
	m := make(map[string]*welfordStats, len(states))
	for _, s := range states {
		m[s.Key] = &welfordStats{count: s.Count, mean: s.Mean, m2: s.M2}
	}
	return m
}

// Confidence reports how many observations back this strategy's global
// statistics, saturating quickly since IGE's value is in its argmax
// ranking rather than a precise confidence estimate.
func (ige *IGE) Confidence(_ domain.FeatureVector, strategy domain.StrategyParams) float64 {
	ige.mu.Lock()
	defer ige.mu.Unlock()
	s, ok := ige.global[Key(strategy)]
	if !ok {
		return 0.5
	}
	return linalgClamp01(0.5 + 0.1*math.Log1p(float64(s.count)))
}
