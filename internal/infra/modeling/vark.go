package modeling

import "github.com/tutu-network/amas/internal/domain"

// VARKConfig parameterizes the learning-style calibration EMA. The
// calibrated profile feeds the heuristic algorithm's hint rule and the
// feature vector; it never touches StrategyParams' domain directly.
type VARKConfig struct {
	Alpha float64 // EMA step for the modality nudge
}

// DefaultVARKConfig returns a slow-adapting default so calibration reflects
// sustained patterns rather than single events.
func DefaultVARKConfig() VARKConfig {
	return VARKConfig{Alpha: 0.05}
}

// questionTypeModality maps a question type label to the VARK modality it
// most exercises. Unknown types are a no-op (calibration only moves on
// recognized types).
func questionTypeModality(questionType string) (pick func(*domain.VARKProfile) *float64, ok bool) {
	switch questionType {
	case "image", "picture", "visual":
		return func(v *domain.VARKProfile) *float64 { return &v.Visual }, true
	case "audio", "listening", "pronunciation":
		return func(v *domain.VARKProfile) *float64 { return &v.Auditory }, true
	case "spelling", "fill_blank", "written":
		return func(v *domain.VARKProfile) *float64 { return &v.ReadWrite }, true
	case "matching", "drag_drop", "interactive":
		return func(v *domain.VARKProfile) *float64 { return &v.Kinesthetic }, true
	default:
		return nil, false
	}
}

// UpdateVARK nudges the modality matching questionType up on a correct answer
// and down on an incorrect one, then renormalizes. A no-op for unrecognized
// question types.
func UpdateVARK(cfg VARKConfig, profile domain.VARKProfile, questionType string, correct bool) domain.VARKProfile {
	pick, ok := questionTypeModality(questionType)
	if !ok {
		return profile
	}
	target := 1.0
	if !correct {
		target = 0.0
	}
	field := pick(&profile)
	*field = *field + cfg.Alpha*(target-*field)
	profile.Normalize()
	return profile
}

// DominantModality returns the modality with the largest weight; ties go to
// the earlier of visual, auditory, read_write, kinesthetic.
func DominantModality(v domain.VARKProfile) string {
	best := "visual"
	bestVal := v.Visual
	if v.Auditory > bestVal {
		best, bestVal = "auditory", v.Auditory
	}
	if v.ReadWrite > bestVal {
		best, bestVal = "read_write", v.ReadWrite
	}
	if v.Kinesthetic > bestVal {
		best, bestVal = "kinesthetic", v.Kinesthetic
	}
	return best
}
