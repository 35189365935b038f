// Package decision implements the contextual-bandit and heuristic decision
// algorithms that each propose a StrategyParams candidate per event:
// LinUCB, Thompson sampling, SWD, IGE, a heuristic rule engine, and the
// cold-start probe manager that precedes all of them.
package decision

import (
	"fmt"

	"github.com/tutu-network/amas/internal/domain"
)

// Key returns a canonical, bijective string encoding of a StrategyParams
// value: two strategies with the same fields always produce the same key,
// and distinct field combinations never collide. Used as the map key for
// per-strategy statistics across every algorithm in this package, and for
// the ensemble's tie-break-by-canonical-key-order rule.
func Key(s domain.StrategyParams) string {
	return fmt.Sprintf("d=%s|n=%.4f|b=%d|i=%.4f|h=%d", s.Difficulty.String(), s.NewRatio, s.BatchSize, s.IntervalScale, s.HintLevel)
}
