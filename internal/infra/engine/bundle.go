package engine

import (
	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/decision"
	"github.com/tutu-network/amas/internal/infra/ensemble"
	"github.com/tutu-network/amas/internal/infra/memory"
	"github.com/tutu-network/amas/internal/infra/modeling"
	"github.com/tutu-network/amas/internal/infra/vocabulary"
)

// itemMemory is one word's persistent memory-decay state: the MDM strength
// and consolidation plus its MSMT review trace.
type itemMemory struct {
	mdm   memory.ItemState
	trace memory.Trace

	consecutiveIncorrect int  // repeat-error streak on this item, feeds fatigue
	mastered              bool // last-computed mastery.Declared verdict
}

// bundle is the full in-memory working set for one user: latent
// cognitive/affective state, per-item memory, vocabulary specialization
// state, and one private instance of every decision algorithm plus the
// ensemble voter that arbitrates between them. Loaded once per user from a
// snapshot and mutated in place for the lifetime of the process (or until
// evicted), never shared across users.
type bundle struct {
	state domain.UserState

	items       map[string]*itemMemory
	recentWords []string // trailing word IDs, for IAD's confusion window

	morphemes  map[string]vocabulary.MorphemeState
	confusions map[string][]vocabulary.ConfusionPair // wordID -> its confusion pairs
	context    map[string][]vocabulary.ContextEntry   // wordID -> encoding-context history

	trendWindow    modeling.MasteryWindow
	accuracyWindow modeling.AccuracyWindow
	prevAttentionPhi float64
	baselineRTMs     float64 // adaptive per-user response-time baseline, ms

	linucb    *decision.LinUCB
	thompson  *decision.Thompson
	swd       *decision.SWD
	ige       *decision.IGE
	heuristic *decision.Heuristic
	coldStart *decision.ColdStartManager
	voter     *ensemble.Voter

	session ensemble.SessionAccumulator
	audit   auditRing

	// lastStrategy, lastProposals, and lastFeatures mirror the most recent
	// decide() call, purely in-memory (never snapshotted): EndSession
	// replays them to give the algorithms a second, session-level update
	// the same way applyReward gives them their per-event one.
	lastStrategy  domain.StrategyParams
	lastProposals []ensemble.Proposal
	lastFeatures  domain.FeatureVector

	dirty bool
}

// newBundle seeds a fresh bundle for a user who has never been seen before.
func newBundle(cfg Config, rng domain.RNG, userID string, clock domain.Clock) *bundle {
	return &bundle{
		state:            domain.NewUserState(userID, clock.NowTimestamp()),
		items:            make(map[string]*itemMemory),
		morphemes:        make(map[string]vocabulary.MorphemeState),
		confusions:       make(map[string][]vocabulary.ConfusionPair),
		context:          make(map[string][]vocabulary.ContextEntry),
		trendWindow:      modeling.NewMasteryWindow(10),
		accuracyWindow:   modeling.NewAccuracyWindow(20),
		prevAttentionPhi: 0.5,
		baselineRTMs:     cfg.Cognitive.DefaultBaselineMs,
		linucb:           decision.NewLinUCB(cfg.LinUCB),
		thompson:         decision.NewThompson(rng),
		swd:              decision.NewSWD(),
		ige:              decision.NewIGE(),
		heuristic:        decision.NewHeuristic(cfg.Heuristic),
		coldStart:        decision.NewColdStartManager(cfg.ColdStart),
		voter:            ensemble.NewVoter(domain.DefaultStrategy()),
		dirty:            true,
	}
}

// algoEntry pairs an algorithm's ensemble identity with its collaborator.
type algoEntry struct {
	id  string
	alg decision.Algorithm
}

// algorithms returns every decision algorithm this bundle holds, in a
// fixed order so iteration is deterministic across runs.
func (b *bundle) algorithms() []algoEntry {
	return []algoEntry{
		{"linucb", b.linucb},
		{"thompson", b.thompson},
		{"swd", b.swd},
		{"ige", b.ige},
		{"heuristic", b.heuristic},
	}
}

// itemFor returns (creating if necessary) the memory state for wordID.
func (b *bundle) itemFor(wordID string, nowMs int64, msmtCfg memory.MSMTConfig) *itemMemory {
	if it, ok := b.items[wordID]; ok {
		return it
	}
	it := &itemMemory{mdm: memory.NewItemState(nowMs), trace: memory.NewTrace(msmtCfg)}
	b.items[wordID] = it
	return it
}

// morphemeContext gathers the morpheme states of other recently studied
// words, for MTP's "known roots transfer a small bonus" computation.
func (b *bundle) morphemeContext(wordID string) []vocabulary.MorphemeState {
	out := make([]vocabulary.MorphemeState, 0, len(b.recentWords))
	seen := make(map[string]bool, len(b.recentWords))
	for _, id := range b.recentWords {
		if id == wordID || seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := b.morphemes[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

const recentWordsCap = 20

// pushRecentWord records wordID as the most recently studied item, for
// IAD's trailing confusion window.
func (b *bundle) pushRecentWord(wordID string) {
	if wordID == "" {
		return
	}
	b.recentWords = append(b.recentWords, wordID)
	if len(b.recentWords) > recentWordsCap {
		b.recentWords = b.recentWords[len(b.recentWords)-recentWordsCap:]
	}
}
