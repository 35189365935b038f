package engine

import "github.com/tutu-network/amas/internal/domain"

// difficultyBatchSize and difficultyIntervalScale tie a difficulty tier to
// a sane default batch size and interval scale, so the candidate set
// doesn't need to cross every dimension independently.
func difficultyBatchSize(d domain.Difficulty) int {
	switch d {
	case domain.Easy:
		return 12
	case domain.Hard:
		return 7
	default:
		return 10
	}
}

func difficultyIntervalScale(d domain.Difficulty) float64 {
	switch d {
	case domain.Easy:
		return 0.85
	case domain.Hard:
		return 1.15
	default:
		return 1.0
	}
}

// CandidateSet returns the finite enumeration of instructional strategies
// every decision algorithm chooses among for one event: each difficulty
// tier crossed with three new-word ratios and three hint levels, with batch
// size and interval scale pinned to sane per-difficulty defaults.
func CandidateSet() []domain.StrategyParams {
	difficulties := [...]domain.Difficulty{domain.Easy, domain.Mid, domain.Hard}
	newRatios := [...]float64{0.2, 0.35, 0.5}
	hintLevels := [...]int{0, 1, 2}

	candidates := make([]domain.StrategyParams, 0, len(difficulties)*len(newRatios)*len(hintLevels))
	for _, d := range difficulties {
		for _, nr := range newRatios {
			for _, hl := range hintLevels {
				s := domain.StrategyParams{
					Difficulty:    d,
					NewRatio:      nr,
					BatchSize:     difficultyBatchSize(d),
					IntervalScale: difficultyIntervalScale(d),
					HintLevel:     hl,
				}
				s.Clamp()
				candidates = append(candidates, s)
			}
		}
	}
	return candidates
}
