package engine

import (
	"github.com/tutu-network/amas/internal/infra/decision"
	"github.com/tutu-network/amas/internal/infra/ensemble"
	"github.com/tutu-network/amas/internal/infra/memory"
	"github.com/tutu-network/amas/internal/infra/modeling"
)

// Config aggregates every tunable sub-config the engine wires into its
// per-user modeling, memory, and decision pipeline. Zero value is not
// usable; construct with DefaultConfig.
type Config struct {
	ADF        modeling.ADFConfig
	Cognitive  modeling.CognitiveConfig
	Fatigue    modeling.FatigueConfig
	Motivation modeling.MotivationConfig
	Trend      modeling.TrendConfig
	VARK       modeling.VARKConfig
	PLF        modeling.PLFConfig

	MDM     memory.MDMConfig
	MSMT    memory.MSMTConfig
	RTarget memory.RTargetConfig
	Mastery memory.MasteryConfig

	LinUCB    decision.LinUCBConfig
	Heuristic decision.HeuristicConfig
	ColdStart decision.ColdStartConfig

	Reward   ensemble.RewardConfig
	Deferred ensemble.DeferredConfig

	// EnabledAlgorithms names which decision algorithms vote each event.
	// An algorithm mapped to false is still constructed (so its snapshot
	// state round-trips) but never proposes or learns from events while
	// disabled. An algorithm absent from the map, or any algorithm when the
	// map is nil, is enabled.
	EnabledAlgorithms map[string]bool
}

// DefaultConfig returns the baseline tuning used when a deployment hasn't
// overridden a section.
func DefaultConfig() Config {
	return Config{
		ADF:        modeling.DefaultADFConfig(),
		Cognitive:  modeling.DefaultCognitiveConfig(),
		Fatigue:    modeling.DefaultFatigueConfig(),
		Motivation: modeling.DefaultMotivationConfig(),
		Trend:      modeling.DefaultTrendConfig(),
		VARK:       modeling.DefaultVARKConfig(),
		PLF:        modeling.DefaultPLFConfig(),

		MDM:     memory.DefaultMDMConfig(),
		MSMT:    memory.DefaultMSMTConfig(),
		RTarget: memory.DefaultRTargetConfig(),
		Mastery: memory.DefaultMasteryConfig(),

		LinUCB:    decision.DefaultLinUCBConfig(),
		Heuristic: decision.DefaultHeuristicConfig(),
		ColdStart: decision.DefaultColdStartConfig(),

		Reward:   ensemble.DefaultRewardConfig(),
		Deferred: ensemble.DefaultDeferredConfig(),

		EnabledAlgorithms: map[string]bool{
			"linucb":    true,
			"thompson":  true,
			"swd":       true,
			"ige":       true,
			"heuristic": true,
		},
	}
}

func (c Config) algorithmEnabled(id string) bool {
	if c.EnabledAlgorithms == nil {
		return true
	}
	enabled, ok := c.EnabledAlgorithms[id]
	return !ok || enabled
}
