package engine

import (
	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/decision"
	"github.com/tutu-network/amas/internal/infra/ensemble"
)

// applyReward computes the event's immediate reward and feeds it back to
// every collaborator that needs it: the voter's per-algorithm trust (every
// proposal that matched the chosen strategy), each matching algorithm's own
// internal learning update, and the session-level running average. A
// cold-start probe (nil proposals) still folds into the session average
// but has no algorithm to credit.
func (e *Engine) applyReward(b *bundle, proposals []ensemble.Proposal, features domain.FeatureVector, chosen domain.StrategyParams, ev domain.RawEvent, motivationDelta float64) float64 {
	hintsUsed := 0
	if ev.HintUsed {
		hintsUsed = 1
	}
	reward := ensemble.Immediate(e.cfg.Reward, ev.IsCorrect, ev.ResponseTimeMs, hintsUsed, motivationDelta)

	if len(proposals) > 0 {
		b.voter.Reward(proposals, chosen, reward)

		chosenKey := decision.Key(chosen)
		for _, a := range b.algorithms() {
			if !e.cfg.algorithmEnabled(a.id) {
				continue
			}
			for _, p := range proposals {
				if p.AlgorithmID == a.id && decision.Key(p.Strategy) == chosenKey {
					a.alg.Update(features, chosen, reward)
					break
				}
			}
		}
	}

	b.session.Add(reward)
	return reward
}
