package engine

import (
	"encoding/json"
	"time"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/decision"
	"github.com/tutu-network/amas/internal/infra/ensemble"
	"github.com/tutu-network/amas/internal/infra/memory"
	"github.com/tutu-network/amas/internal/infra/modeling"
	"github.com/tutu-network/amas/internal/infra/vocabulary"
)

// itemSnapshot is one word's persisted memory-decay state.
type itemSnapshot struct {
	WordID               string              `json:"word_id"`
	MDM                  memory.ItemState    `json:"mdm"`
	Trace                []memory.TraceEvent `json:"trace"`
	ConsecutiveIncorrect int                 `json:"consecutive_incorrect"`
	Mastered             bool                `json:"mastered"`
}

// vocabSnapshot is the persisted vocabulary-specialization state.
type vocabSnapshot struct {
	RecentWords []string                             `json:"recent_words,omitempty"`
	Morphemes   map[string]vocabulary.MorphemeState  `json:"morphemes,omitempty"`
	Confusions  map[string][]vocabulary.ConfusionPair `json:"confusions,omitempty"`
	Context     map[string][]vocabulary.ContextEntry `json:"context,omitempty"`
}

// memorySnapshot is the "memory" persistence layer: per-item decay state
// plus the vocabulary specializations and the trend/accuracy windows that
// feed the cognitive layer's trend classification.
type memorySnapshot struct {
	Items            []itemSnapshot          `json:"items,omitempty"`
	Vocabulary       vocabSnapshot           `json:"vocabulary"`
	TrendWindow      []float64               `json:"trend_window,omitempty"`
	AccuracyWindow   []float64               `json:"accuracy_window,omitempty"`
	PrevAttentionPhi float64                 `json:"prev_attention_phi"`
	BaselineRTMs     float64                 `json:"baseline_rt_ms"`
}

// decisionSnapshot is the "decision" persistence layer: every algorithm's
// exported model state, one instance per user.
type decisionSnapshot struct {
	LinUCB     decision.State         `json:"linucb"`
	Thompson   []decision.BetaState   `json:"thompson,omitempty"`
	SWD        []decision.EntryState  `json:"swd,omitempty"`
	IGEGlobal  []decision.StatState   `json:"ige_global,omitempty"`
	IGEContext []decision.StatState   `json:"ige_context,omitempty"`
}

// ensembleSnapshot is the "ensemble" persistence layer: per-algorithm trust
// and the running session reward accumulator.
type ensembleSnapshot struct {
	Performance  map[string]ensemble.Performance `json:"performance,omitempty"`
	SessionSum   float64                          `json:"session_sum"`
	SessionCount int                              `json:"session_count"`
}

// Snapshot is the JSON-shaped object persisted per user, partitioned into
// the four layers the engine pipeline mutates: cognitive state, per-item
// memory, per-user decision-algorithm models, and ensemble trust. UpdatedAt
// is set only when a ProcessEvent call actually mutated the bundle; a
// snapshot that's loaded and never mutated is saved back with its
// UpdatedAt value unchanged (read-through semantics).
type Snapshot struct {
	UserState domain.UserState `json:"user_state"`
	Memory    memorySnapshot   `json:"memory"`
	Decision  decisionSnapshot `json:"decision"`
	Ensemble  ensembleSnapshot `json:"ensemble"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// toSnapshot exports a bundle's full working state into its persisted form.
func (b *bundle) toSnapshot(updatedAt time.Time) Snapshot {
	items := make([]itemSnapshot, 0, len(b.items))
	for wordID, it := range b.items {
		items = append(items, itemSnapshot{
			WordID:               wordID,
			MDM:                  it.mdm,
			Trace:                append([]memory.TraceEvent(nil), it.trace.Events...),
			ConsecutiveIncorrect: it.consecutiveIncorrect,
			Mastered:             it.mastered,
		})
	}

	linucbState := b.linucb.Export()
	thompsonState := b.thompson.Export()
	swdState := b.swd.Export()
	igeGlobal, igeContext := b.ige.Export()
	sessionSum, sessionCount := b.session.State()

	return Snapshot{
		UserState: b.state,
		Memory: memorySnapshot{
			Items: items,
			Vocabulary: vocabSnapshot{
				RecentWords: append([]string(nil), b.recentWords...),
				Morphemes:   b.morphemes,
				Confusions:  b.confusions,
				Context:     b.context,
			},
			TrendWindow:      append([]float64(nil), b.trendWindow.Values...),
			AccuracyWindow:   append([]float64(nil), b.accuracyWindow.Values...),
			PrevAttentionPhi: b.prevAttentionPhi,
			BaselineRTMs:     b.baselineRTMs,
		},
		Decision: decisionSnapshot{
			LinUCB:     linucbState,
			Thompson:   thompsonState,
			SWD:        swdState,
			IGEGlobal:  igeGlobal,
			IGEContext: igeContext,
		},
		Ensemble: ensembleSnapshot{
			Performance:  b.voter.ExportPerformance(),
			SessionSum:   sessionSum,
			SessionCount: sessionCount,
		},
		UpdatedAt: updatedAt,
	}
}

// fromSnapshot reconstructs a bundle's full working state from a persisted
// snapshot. cfg seeds any sub-config the exported state doesn't itself
// carry (e.g. LinUCB's alpha, the heuristic's thresholds).
func fromSnapshot(cfg Config, rng domain.RNG, snap Snapshot) *bundle {
	b := &bundle{
		state:            snap.UserState,
		items:            make(map[string]*itemMemory, len(snap.Memory.Items)),
		morphemes:        snap.Memory.Vocabulary.Morphemes,
		confusions:       snap.Memory.Vocabulary.Confusions,
		context:          snap.Memory.Vocabulary.Context,
		recentWords:      append([]string(nil), snap.Memory.Vocabulary.RecentWords...),
		trendWindow:      modeling.MasteryWindow{Values: append([]float64(nil), snap.Memory.TrendWindow...), Cap: 10},
		accuracyWindow:   modeling.AccuracyWindow{Values: append([]float64(nil), snap.Memory.AccuracyWindow...), Cap: 20},
		prevAttentionPhi: snap.Memory.PrevAttentionPhi,
		baselineRTMs:     snap.Memory.BaselineRTMs,
		linucb:           decision.NewLinUCB(cfg.LinUCB),
		thompson:         decision.NewThompson(rng),
		swd:              decision.NewSWD(),
		ige:              decision.NewIGE(),
		heuristic:        decision.NewHeuristic(cfg.Heuristic),
		coldStart:        decision.NewColdStartManager(cfg.ColdStart),
		voter:            ensemble.NewVoter(domain.DefaultStrategy()),
	}
	if b.morphemes == nil {
		b.morphemes = make(map[string]vocabulary.MorphemeState)
	}
	if b.confusions == nil {
		b.confusions = make(map[string][]vocabulary.ConfusionPair)
	}
	if b.context == nil {
		b.context = make(map[string][]vocabulary.ContextEntry)
	}
	if b.prevAttentionPhi == 0 {
		b.prevAttentionPhi = 0.5
	}
	if b.baselineRTMs <= 0 {
		b.baselineRTMs = cfg.Cognitive.DefaultBaselineMs
	}

	for _, it := range snap.Memory.Items {
		trace := memory.NewTrace(cfg.MSMT)
		for _, e := range it.Trace {
			trace.Push(e)
		}
		b.items[it.WordID] = &itemMemory{
			mdm:                  it.MDM,
			trace:                trace,
			consecutiveIncorrect: it.ConsecutiveIncorrect,
			mastered:             it.Mastered,
		}
	}

	b.linucb.Import(snap.Decision.LinUCB)
	b.thompson.Import(snap.Decision.Thompson)
	b.swd.Import(snap.Decision.SWD)
	b.ige.Import(snap.Decision.IGEGlobal, snap.Decision.IGEContext)
	b.voter.ImportPerformance(snap.Ensemble.Performance)
	b.session.Restore(snap.Ensemble.SessionSum, snap.Ensemble.SessionCount)

	return b
}

// MarshalSnapshot serializes a Snapshot for the persistence collaborator.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot deserializes a snapshot blob, returning
// domain.ErrStateCorrupt-wrapped errors on malformed JSON so the engine can
// distinguish "never persisted" from "persisted garbage".
func UnmarshalSnapshot(userID string, blob []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(blob, &s); err != nil {
		return Snapshot{}, corruptError(userID, err)
	}
	return s, nil
}
