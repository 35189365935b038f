package modeling

import "math"

// PLFConfig parameterizes the power-law forgetting curve.
type PLFConfig struct {
	DBase  float64 // d_base
	Alpha  float64 // α inside f_n = 1 + α*ln(1+n)
	SBaseMs float64 // default scale when the caller has no per-item stability estimate
}

// DefaultPLFConfig returns baseline defaults.
func DefaultPLFConfig() PLFConfig {
	return PLFConfig{DBase: 0.5, Alpha: 0.3, SBaseMs: 86_400_000} // 1 day in ms
}

// Retrievability computes R = exp(-d*ln(1+t/(s*f_n)))
//
//   - tMs is elapsed time since last review, in milliseconds.
//   - n is the number of prior reviews (repetition count).
//   - difficulty is on a 1..10 scale (5 is neutral).
//   - sMs is the per-item stability scale; pass <=0 to use SBaseMs.
//
// R(0) = 1 exactly, and R is strictly decreasing in t for t > 0.
func Retrievability(cfg PLFConfig, tMs float64, n int, difficulty float64, sMs float64) float64 {
	if tMs <= 0 {
		return 1
	}
	if sMs <= 0 {
		sMs = cfg.SBaseMs
	}
	fn := 1 + cfg.Alpha*math.Log(1+float64(n))
	d := cfg.DBase * (1 + 0.1*(difficulty-5))
	if d < 0 {
		d = 0
	}
	r := math.Exp(-d * math.Log(1+tMs/(sMs*fn)))
	return clamp01(r)
}
