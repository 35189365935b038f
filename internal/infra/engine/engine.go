// Package engine wires the modeling, memory, decision, and ensemble layers
// into the single ProcessEvent façade: one call sanitizes a raw learner
// interaction, updates that user's cognitive/affective state and per-item
// memory models, runs the instructional-strategy ensemble, and persists the
// result before returning.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/metrics"
)

// trustCollapseFloor is the trust score below which an algorithm is
// considered to have collapsed: its proposals are consistently outvoted or
// penalized, and an operator likely wants to know before disabling it.
const trustCollapseFloor = 0.05

// Engine is the process-lifetime owner of every user's bundle. It is safe
// for concurrent use by multiple goroutines; per-user work is serialized by
// its internal lock registry, but different users proceed fully in
// parallel.
type Engine struct {
	cfg     Config
	store   domain.SnapshotStore
	clock   domain.Clock
	metrics *metrics.Registry
	locks   *lockRegistry

	rngMu sync.Mutex
	rng   domain.RNG

	cacheMu sync.Mutex
	cache   map[string]*bundle
}

// New wires an Engine over its collaborators. metricsReg may be nil, in
// which case instrumentation is skipped.
func New(cfg Config, store domain.SnapshotStore, clock domain.Clock, rng domain.RNG, metricsReg *metrics.Registry) *Engine {
	return &Engine{
		cfg:     cfg,
		store:   store,
		clock:   clock,
		rng:     rng,
		metrics: metricsReg,
		locks:   newLockRegistry(),
		cache:   make(map[string]*bundle),
	}
}

// sharedRNG lets every per-user bundle's Thompson sampler draw from one
// injected domain.RNG without racing: domain.RNG itself carries no
// concurrency contract, so the engine is the one place that must serialize
// access to it.
type sharedRNG struct {
	mu  *sync.Mutex
	rng domain.RNG
}

func (s sharedRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (e *Engine) rngCollaborator() domain.RNG {
	return sharedRNG{mu: &e.rngMu, rng: e.rng}
}

// ProcessEvent runs one learner interaction through the full pipeline —
// sanitize, model, remember, decide, reward, persist — and returns the
// chosen instructional strategy. Cancelling ctx before a checkpoint aborts
// the call with a wrapped domain.ErrCancelled and leaves the user's
// persisted state untouched.
func (e *Engine) ProcessEvent(ctx context.Context, userID string, ev domain.RawEvent, opts domain.ProcessOptions) (domain.AmasDecision, error) {
	start := e.clock.NowTimestamp()

	if err := ctx.Err(); err != nil {
		return domain.AmasDecision{}, cancelledError(userID, err)
	}

	release := e.locks.acquire(userID)
	defer release()

	b, err := e.loadBundle(ctx, userID)
	if err != nil {
		return domain.AmasDecision{}, err
	}

	if err := ctx.Err(); err != nil {
		return domain.AmasDecision{}, cancelledError(userID, err)
	}

	ev = e.sanitizeEvent(ev)

	upd := e.update(b, ev, opts)
	out, proposals := e.decide(b, upd.features)
	reward := e.applyReward(b, proposals, upd.features, out.Strategy, ev, upd.motivationDelta)

	b.voter.SetFallback(out.Strategy)
	b.lastStrategy = out.Strategy
	b.lastProposals = proposals
	b.lastFeatures = upd.features

	if err := ctx.Err(); err != nil {
		return domain.AmasDecision{}, cancelledError(userID, err)
	}

	b.state.UpdatedAt = e.clock.NowTimestamp()
	if err := e.persist(ctx, userID, b); err != nil {
		return domain.AmasDecision{}, err
	}

	e.cacheMu.Lock()
	e.cache[userID] = b
	e.cacheMu.Unlock()

	e.recordMetrics(userID, b, out, reward, start)

	return out, nil
}

// loadBundle returns the user's working bundle: the in-memory cache if
// already loaded, otherwise the persisted snapshot, otherwise a freshly
// seeded bundle for a never-before-seen user.
func (e *Engine) loadBundle(ctx context.Context, userID string) (*bundle, error) {
	e.cacheMu.Lock()
	if b, ok := e.cache[userID]; ok {
		e.cacheMu.Unlock()
		return b, nil
	}
	e.cacheMu.Unlock()

	blob, err := e.store.LoadState(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return newBundle(e.cfg, e.rngCollaborator(), userID, e.clock), nil
		}
		if e.metrics != nil {
			e.metrics.SnapshotLoadErrors.Inc()
		}
		return nil, loadError(userID, err)
	}
	if len(blob) == 0 {
		return newBundle(e.cfg, e.rngCollaborator(), userID, e.clock), nil
	}

	snap, err := UnmarshalSnapshot(userID, blob)
	if err != nil {
		if e.metrics != nil {
			e.metrics.SnapshotLoadErrors.Inc()
		}
		return nil, err
	}
	return fromSnapshot(e.cfg, e.rngCollaborator(), snap), nil
}

// persist exports the bundle's full working state and writes it back
// through the store collaborator.
func (e *Engine) persist(ctx context.Context, userID string, b *bundle) error {
	snap := b.toSnapshot(b.state.UpdatedAt)
	blob, err := MarshalSnapshot(snap)
	if err != nil {
		return saveError(userID, err)
	}
	if err := e.store.SaveState(ctx, userID, blob); err != nil {
		if e.metrics != nil {
			e.metrics.SnapshotSaveErrors.Inc()
		}
		return saveError(userID, err)
	}
	return nil
}

// recordMetrics reports the per-event instrumentation. A nil registry
// (tests, or a deployment that opted out of Prometheus) makes every call
// here a no-op.
func (e *Engine) recordMetrics(userID string, b *bundle, out domain.AmasDecision, reward float64, start time.Time) {
	if e.metrics == nil {
		return
	}

	winner := "fallback"
	if len(out.Explanation.Algorithms) > 0 {
		winner = out.Explanation.Algorithms[0].ID
		for _, v := range out.Explanation.Algorithms {
			e.metrics.AlgorithmWeight.WithLabelValues(v.ID).Set(v.Weight)
		}
	}
	e.metrics.DecisionsTotal.WithLabelValues(winner).Inc()
	e.metrics.RewardImmediate.Observe(reward)

	for id, trust := range b.voter.TrustSnapshot() {
		e.metrics.TrustScore.WithLabelValues(id).Set(trust)
		ruleID := "trust_collapse_" + userID + "_" + id
		if trust < trustCollapseFloor {
			metrics.GlobalAlertHistory().Fire(metrics.AlertEvent{
				RuleID:      ruleID,
				RuleName:    "algorithm trust collapsed",
				Metric:      "amas_ensemble_trust_score",
				Severity:    metrics.AlertWarning,
				Status:      metrics.AlertFiring,
				Message:     "algorithm " + id + " trust fell below the collapse floor for user " + userID,
				Value:       trust,
				TriggeredAt: e.clock.NowTimestamp(),
			})
		} else {
			metrics.GlobalAlertHistory().Resolve(ruleID, e.clock.NowTimestamp())
		}
	}

	active := 0.0
	if b.coldStart.Active(b.state.EventCount) {
		active = 1.0
	}
	e.metrics.ColdStartActive.WithLabelValues(userID).Set(active)

	e.metrics.EventLatencyMs.Observe(float64(e.clock.NowTimestamp().Sub(start).Milliseconds()))
}
