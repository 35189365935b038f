package engine

import (
	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/decision"
	"github.com/tutu-network/amas/internal/infra/ensemble"
)

// coldStartAlgorithmID is the fixed explanation attached to a scripted probe
// decision, so callers can tell a probe from a genuine ensemble vote.
const coldStartAlgorithmID = "coldstart"

// decide runs the cold-start probe, or failing that the full ensemble
// vote, over the fixed candidate set and returns the chosen strategy
// alongside the proposals that produced it (nil during cold start, since
// the probe bypasses every learning algorithm). Either path also attaches
// an optional additional-review-count recommendation from SWD's own
// context-weighted history, independent of which algorithm's strategy won.
func (e *Engine) decide(b *bundle, features domain.FeatureVector) (domain.AmasDecision, []ensemble.Proposal) {
	candidates := CandidateSet()

	if b.coldStart.Active(b.state.EventCount) {
		if strategy, ok := b.coldStart.Probe(b.state.EventCount, candidates); ok {
			out := domain.AmasDecision{
				Strategy: strategy,
				Explanation: domain.Explanation{Algorithms: []domain.AlgorithmVote{
					{ID: coldStartAlgorithmID, Weight: 1, ProposedKey: decision.Key(strategy)},
				}},
				Confidence: 1,
			}
			out.Recommendation = recommendationFor(b, features)
			return out, nil
		}
	}

	var proposals []ensemble.Proposal
	for _, a := range b.algorithms() {
		if !e.cfg.algorithmEnabled(a.id) {
			continue
		}
		strategy, ok := a.alg.Select(b.state, features, candidates)
		if !ok {
			continue
		}
		confidence := confidenceFor(a, b.state, features, strategy)
		proposals = append(proposals, ensemble.Proposal{AlgorithmID: a.id, Strategy: strategy, Confidence: confidence})
	}

	out := b.voter.Vote(proposals)
	out.Recommendation = recommendationFor(b, features)
	return out, proposals
}

// recommendationFor asks SWD's own history for an additional-review-count
// suggestion given the current context, regardless of which algorithm the
// ensemble ultimately credited.
func recommendationFor(b *bundle, features domain.FeatureVector) *domain.SwdRecommendation {
	rec, ok := b.swd.RecommendAdditionalCount(features)
	if !ok {
		return nil
	}
	return &rec
}

// confidenceFor special-cases the heuristic: its Confidence method can't
// see the UserState its rules fired against, so the engine calls
// ConfidenceFor directly with the same state used at selection time.
func confidenceFor(a algoEntry, state domain.UserState, features domain.FeatureVector, strategy domain.StrategyParams) float64 {
	if h, ok := a.alg.(*decision.Heuristic); ok {
		return h.ConfidenceFor(state, strategy)
	}
	return a.alg.Confidence(features, strategy)
}
