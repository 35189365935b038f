package engine

import (
	"context"

	"github.com/tutu-network/amas/internal/infra/decision"
	"github.com/tutu-network/amas/internal/infra/ensemble"
)

// EndSession closes out a user's current session: it folds the running
// per-event reward average (the session's completion-rate proxy),
// retentionProxy, and endOfSessionFatigue into the session-level deferred
// composite, then re-applies that composite as a second reward/update pass
// to every algorithm that contributed to the session's most recent
// decision — the same crediting rule applyReward uses for the immediate
// per-event reward, just replayed against the last known proposals rather
// than a fresh set. The session accumulator is reset afterward so the next
// session starts from zero. Returns the computed deferred reward.
func (e *Engine) EndSession(ctx context.Context, userID string, retentionProxy, endOfSessionFatigue float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, cancelledError(userID, err)
	}

	release := e.locks.acquire(userID)
	defer release()

	b, err := e.loadBundle(ctx, userID)
	if err != nil {
		return 0, err
	}

	completionRate := b.session.CompletionRate()
	reward := ensemble.Deferred(e.cfg.Deferred, retentionProxy, completionRate, endOfSessionFatigue)

	if len(b.lastProposals) > 0 {
		b.voter.Reward(b.lastProposals, b.lastStrategy, reward)

		chosenKey := decision.Key(b.lastStrategy)
		for _, a := range b.algorithms() {
			if !e.cfg.algorithmEnabled(a.id) {
				continue
			}
			for _, p := range b.lastProposals {
				if p.AlgorithmID == a.id && decision.Key(p.Strategy) == chosenKey {
					a.alg.Update(b.lastFeatures, b.lastStrategy, reward)
					break
				}
			}
		}
	}

	b.session.Restore(0, 0)
	b.state.UpdatedAt = e.clock.NowTimestamp()

	if err := e.persist(ctx, userID, b); err != nil {
		return 0, err
	}

	e.cacheMu.Lock()
	e.cache[userID] = b
	e.cacheMu.Unlock()

	return reward, nil
}
