// Package linalg provides the small set of numerically defensive linear
// algebra primitives the decision layer needs: NaN/Inf sanitization, dense
// matrix inversion via Gaussian elimination, and vector similarity.
//
// Everything here is stdlib math only. LinUCB's inversion is Gaussian
// elimination on an augmented matrix with named numeric guards rather than
// a general linear solve, so a general-purpose solver (gonum/mat) would
// behave differently around near-singular matrices than this package does.
package linalg

import "math"

// LambdaMin is the floor applied to diagonal entries that are found to be
// non-finite or to fall below it during sanitization.
const LambdaMin = 1e-6

// PivotFloor is the minimum magnitude a pivot may have during Gaussian
// elimination before it is treated as singular and replaced.
const PivotFloor = 1e-10

// SanitizeScalar replaces a non-finite value with def, leaving finite values
// untouched.
func SanitizeScalar(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Repair describes what SanitizeMatrix had to do, surfaced as a metric
// rather than an error: recoverable numerical anomalies are repaired
// locally and surfaced as metrics, not errors.
type Repair struct {
	NonFiniteCells int  // count of NaN/Inf cells replaced
	Symmetrized    bool // whether A was forced symmetric
}

// Any reports whether any repair action was taken.
func (r Repair) Any() bool { return r.NonFiniteCells > 0 || r.Symmetrized }

// SanitizeMatrix replaces non-finite cells in a square matrix (0 off the
// diagonal, LambdaMin on it) and then symmetrizes it by averaging with its
// transpose. A is mutated in place and returned for convenience.
func SanitizeMatrix(a [][]float64) ([][]float64, Repair) {
	n := len(a)
	var rep Repair
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				rep.NonFiniteCells++
				if i == j {
					a[i][j] = LambdaMin
				} else {
					a[i][j] = 0
				}
			}
		}
	}
	// Symmetrize: A <- (A + A^T) / 2. Always performed — cheap, and a
	// freshly-sanitized matrix built from rank-1 updates (x*x^T) is already
	// symmetric in exact arithmetic, so this is a no-op outside of repair.
	asymmetric := false
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if a[i][j] != a[j][i] {
				asymmetric = true
				avg := (a[i][j] + a[j][i]) / 2
				a[i][j] = avg
				a[j][i] = avg
			}
		}
	}
	rep.Symmetrized = asymmetric
	// Floor the diagonal so the matrix stays positive-definite even after
	// repeated repairs.
	for i := 0; i < n; i++ {
		if a[i][i] < LambdaMin {
			a[i][i] = LambdaMin
		}
	}
	return a, rep
}

// Identity returns an n×n identity matrix.
func Identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

// CloneMatrix returns a deep copy of a.
func CloneMatrix(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
