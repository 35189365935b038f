package decision

import "github.com/tutu-network/amas/internal/domain"

// Algorithm is the shared contract every decision algorithm implements.
// Select returns nil when the algorithm declines to propose (e.g. empty
// candidate set); Update feeds back the observed reward for a strategy it
// previously proposed; Confidence is a self-reported [0,1] score the
// ensemble weights alongside trust.
type Algorithm interface {
	ID() string
	Select(state domain.UserState, features domain.FeatureVector, candidates []domain.StrategyParams) (domain.StrategyParams, bool)
	Update(features domain.FeatureVector, chosen domain.StrategyParams, reward float64)
	Confidence(features domain.FeatureVector, strategy domain.StrategyParams) float64
}

// actionFeatures encodes a candidate strategy into the ActionDim-length
// vector LinUCB appends to the context: difficulty value,
// newRatio, batchSize/20, intervalScale, hintLevel/2.
func actionFeatures(s domain.StrategyParams) [domain.ActionDim]float64 {
	return [domain.ActionDim]float64{
		s.Difficulty.Value(),
		s.NewRatio,
		float64(s.BatchSize) / 20,
		s.IntervalScale,
		float64(s.HintLevel) / 2,
	}
}

// concatFeatures builds the contextDim+actionDim joint vector LinUCB scores.
func concatFeatures(context domain.FeatureVector, s domain.StrategyParams) []float64 {
	action := actionFeatures(s)
	x := make([]float64, domain.ContextDim+domain.ActionDim)
	copy(x, context[:])
	copy(x[domain.ContextDim:], action[:])
	return x
}
