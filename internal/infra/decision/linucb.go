package decision

import (
	"math"
	"sync"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/linalg"
)

// LinUCBConfig parameterizes the contextual bandit's exploration bonus.
type LinUCBConfig struct {
	Alpha float64
}

// DefaultLinUCBConfig returns a moderate exploration coefficient.
func DefaultLinUCBConfig() LinUCBConfig {
	return LinUCBConfig{Alpha: 0.5}
}

// LinUCB is a linear upper-confidence-bound contextual bandit.
// A ranges over the d = contextDim+actionDim dimensional joint feature
// space; it starts as the identity and every update is a rank-1 PSD-
// preserving increment guarded by internal/infra/linalg's sanitization.
type LinUCB struct {
	mu  sync.Mutex
	cfg LinUCBConfig
	dim int
	a   [][]float64
	b   []float64
}

// NewLinUCB creates a bandit over the standard joint feature dimension.
func NewLinUCB(cfg LinUCBConfig) *LinUCB {
	dim := domain.ContextDim + domain.ActionDim
	return &LinUCB{
		cfg: cfg,
		dim: dim,
		a:   linalg.Identity(dim),
		b:   make([]float64, dim),
	}
}

// ID identifies this algorithm in ensemble explanations.
func (l *LinUCB) ID() string { return "linucb" }

// Select scores every candidate via θᵀx + α√(xᵀA⁻¹x) and returns the
// argmax, breaking ties by first-encountered candidate.
func (l *LinUCB) Select(_ domain.UserState, features domain.FeatureVector, candidates []domain.StrategyParams) (domain.StrategyParams, bool) {
	if len(candidates) == 0 {
		return domain.StrategyParams{}, false
	}

	l.mu.Lock()
	aInv := linalg.Invert(l.a)
	theta := linalg.MatVec(aInv, l.b)
	l.mu.Unlock()

	best := candidates[0]
	bestScore := math.Inf(-1)
	for _, c := range candidates {
		x := concatFeatures(features, c)
		mean := linalg.Dot(theta, x)
		bonus := l.cfg.Alpha * math.Sqrt(math.Max(0, linalg.Quadratic(aInv, x)))
		score := mean + bonus
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best, true
}

// Update performs the rank-1 increments A += xxᵀ, b += r·x, sanitizing A
// against non-finite drift before the next Select.
func (l *LinUCB) Update(features domain.FeatureVector, chosen domain.StrategyParams, reward float64) {
	x := concatFeatures(features, chosen)

	l.mu.Lock()
	defer l.mu.Unlock()
	linalg.AddOuterProduct(l.a, x)
	linalg.AddScaled(l.b, reward, x)
	sanitized, _ := linalg.SanitizeMatrix(l.a)
	l.a = sanitized
}

// State is LinUCB's exported (A, b) pair, for snapshotting.
type State struct {
	A [][]float64 `json:"a"`
	B []float64   `json:"b"`
}

// Export returns a deep copy of the current model.
func (l *LinUCB) Export() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{A: linalg.CloneMatrix(l.a), B: append([]float64(nil), l.b...)}
}

// Import replaces the model with s, falling back to a fresh identity model
// if s is malformed (wrong dimension) rather than panicking on a corrupt
// snapshot.
func (l *LinUCB) Import(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(s.A) != l.dim || len(s.B) != l.dim {
		l.a = linalg.Identity(l.dim)
		l.b = make([]float64, l.dim)
		return
	}
	sanitized, _ := linalg.SanitizeMatrix(linalg.CloneMatrix(s.A))
	l.a = sanitized
	l.b = append([]float64(nil), s.B...)
}

// Confidence reuses the exploration bonus (normalized) as a self-reported
// confidence signal.
func (l *LinUCB) Confidence(features domain.FeatureVector, strategy domain.StrategyParams) float64 {
	l.mu.Lock()
	aInv := linalg.Invert(l.a)
	l.mu.Unlock()

	x := concatFeatures(features, strategy)
	variance := math.Max(0, linalg.Quadratic(aInv, x))
	return linalg.Clamp01(1 / (1 + variance))
}
