package vision

// VisualFatigueFromSignals composes a blink detector's stats and a PERCLOS
// calculator's result into the single (score, confidence) pair the engine's
// fatigue fusion step consumes. A depressed blink rate and a high PERCLOS
// fraction both indicate fatigue; confidence is 0 while the PERCLOS window
// is not yet valid and 1 once it is, since a cold PERCLOS window is
// unreliable regardless of what the blink detector reports.
func VisualFatigueFromSignals(blink BlinkStats, perclos PERCLOSResult) (score, confidence float64) {
	perclosScore := perclos.Perclos

	// A healthy blink rate is roughly 15-20/min; below ~10/min or above
	// ~30/min both correlate with fatigue/strain in the source literature.
	blinkScore := 0.0
	switch {
	case blink.Count == 0:
		blinkScore = 0
	case blink.RateBlinksPerMin < 10:
		blinkScore = (10 - blink.RateBlinksPerMin) / 10
	case blink.RateBlinksPerMin > 30:
		blinkScore = (blink.RateBlinksPerMin - 30) / 30
	}
	if blinkScore > 1 {
		blinkScore = 1
	}

	score = 0.7*perclosScore + 0.3*blinkScore
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	if !perclos.IsValid {
		return score, 0
	}
	confidence = 1
	return score, confidence
}
