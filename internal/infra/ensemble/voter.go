package ensemble

import (
	"sort"
	"sync"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/decision"
)

// Proposal is one algorithm's vote for a given event: the strategy it
// selected and its self-reported confidence.
type Proposal struct {
	AlgorithmID string
	Strategy    domain.StrategyParams
	Confidence  float64
}

// Voter maintains per-algorithm trust and runs the weighted-vote procedure.
// The zero value is not usable; construct with NewVoter.
type Voter struct {
	mu           sync.Mutex
	performance  map[string]*Performance
	fallback     domain.StrategyParams
}

// NewVoter creates an empty trust table. fallback is returned verbatim
// when no proposals are supplied (e.g. every algorithm disabled).
func NewVoter(fallback domain.StrategyParams) *Voter {
	return &Voter{performance: make(map[string]*Performance), fallback: fallback}
}

// SetFallback updates the strategy Vote returns when no proposals are
// supplied. The caller is expected to call this after every decision with
// the strategy that was actually chosen, so that disabling every algorithm
// mid-session falls back to the user's current strategy rather than
// whatever fallback the voter was constructed with.
func (v *Voter) SetFallback(strategy domain.StrategyParams) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fallback = strategy
}

func (v *Voter) perf(id string) *Performance {
	p, ok := v.performance[id]
	if !ok {
		np := NewPerformance()
		p = &np
		v.performance[id] = p
	}
	return p
}

// Vote runs the weighted-vote procedure: each proposal contributes
// trust·confidence to its strategy's key, the highest-weight key wins,
// ties are broken by canonical key order.
func (v *Voter) Vote(proposals []Proposal) domain.AmasDecision {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(proposals) == 0 {
		return domain.AmasDecision{Strategy: v.fallback, Confidence: 0, Explanation: domain.Explanation{}}
	}

	type bucket struct {
		strategy domain.StrategyParams
		weight   float64
		votes    []domain.AlgorithmVote
	}
	buckets := make(map[string]*bucket)

	for _, p := range proposals {
		trust := v.perf(p.AlgorithmID).TrustScore()
		weight := trust * p.Confidence
		key := decision.Key(p.Strategy)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{strategy: p.Strategy}
			buckets[key] = b
		}
		b.weight += weight
		b.votes = append(b.votes, domain.AlgorithmVote{ID: p.AlgorithmID, Weight: weight, ProposedKey: key})
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	winnerKey := keys[0]
	winnerWeight := buckets[winnerKey].weight
	for _, k := range keys[1:] {
		if buckets[k].weight > winnerWeight {
			winnerKey = k
			winnerWeight = buckets[k].weight
		}
	}

	winner := buckets[winnerKey]
	sort.Slice(winner.votes, func(i, j int) bool { return winner.votes[i].ID < winner.votes[j].ID })

	return domain.AmasDecision{
		Strategy:    winner.strategy,
		Explanation: domain.Explanation{Algorithms: winner.votes},
		Confidence:  clampRange(winnerWeight, 0, 1),
	}
}

// Reward feeds the observed reward to every algorithm whose proposal
// matched the chosen strategy; others receive no update and their trust
// is left untouched this round.
func (v *Voter) Reward(proposals []Proposal, chosen domain.StrategyParams, reward float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	chosenKey := decision.Key(chosen)
	for _, p := range proposals {
		if decision.Key(p.Strategy) != chosenKey {
			continue
		}
		v.perf(p.AlgorithmID).Observe(reward)
	}
}

// TrustSnapshot returns a copy-on-read view of every tracked algorithm's
// current trust score, safe to share with readers outside the lock.
func (v *Voter) TrustSnapshot() map[string]float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]float64, len(v.performance))
	for id, p := range v.performance {
		out[id] = p.TrustScore()
	}
	return out
}

// ExportPerformance returns a copy of the full per-algorithm performance
// table (EMA reward and sample count), for snapshotting.
func (v *Voter) ExportPerformance() map[string]Performance {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]Performance, len(v.performance))
	for id, p := range v.performance {
		out[id] = *p
	}
	return out
}

// ImportPerformance replaces the performance table wholesale.
func (v *Voter) ImportPerformance(m map[string]Performance) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.performance = make(map[string]*Performance, len(m))
	for id, p := range m {
		cp := p
		v.performance[id] = &cp
	}
}
