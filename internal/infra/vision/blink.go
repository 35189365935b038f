// Package vision implements the blink and PERCLOS detectors over
// facial-landmark-derived Eye Aspect Ratio (EAR) samples.
package vision

// blinkState is the blink detector's state machine stage:
// Open -> Closing (ear<θ) -> Closed (ear<0.8θ) -> Opening (ear>=0.8θ) ->
// Open (ear>=θ).
type blinkState int

const (
	stateOpen blinkState = iota
	stateClosing
	stateClosed
	stateOpening
)

// BlinkEvent records one completed, within-duration-bounds blink.
type BlinkEvent struct {
	TimestampMs float64
	DurationMs  float64
}

// BlinkDetectorConfig configures EAR thresholds and the valid-duration band.
type BlinkDetectorConfig struct {
	EarThreshold      float64
	MinBlinkDurationMs float64
	MaxBlinkDurationMs float64
	WindowMs          float64 // sliding window retained for rate/avg-duration stats
}

// DefaultBlinkDetectorConfig returns baseline defaults: θ=0.25, a 60s
// sliding window.
func DefaultBlinkDetectorConfig() BlinkDetectorConfig {
	return BlinkDetectorConfig{
		EarThreshold:       0.25,
		MinBlinkDurationMs: 50,
		MaxBlinkDurationMs: 400,
		WindowMs:           60_000,
	}
}

// BlinkDetector tracks the open/closing/closed/opening state machine over a
// stream of (ear, timestamp) samples and records completed blinks whose
// round-trip duration falls inside [min, max]; blinks outside that band are
// silently dropped, no error, just not recorded.
type BlinkDetector struct {
	cfg            BlinkDetectorConfig
	state          blinkState
	closeStartMs   float64
	events         []BlinkEvent
}

// NewBlinkDetector creates a detector in the Open state.
func NewBlinkDetector(cfg BlinkDetectorConfig) *BlinkDetector {
	return &BlinkDetector{cfg: cfg, state: stateOpen, events: make([]BlinkEvent, 0, 16)}
}

// Detect advances the state machine with one new EAR sample and returns the
// recorded blink event, if this sample completed one.
func (d *BlinkDetector) Detect(ear, timestampMs float64) (BlinkEvent, bool) {
	threshold := d.cfg.EarThreshold
	closedThreshold := threshold * 0.8

	var recorded BlinkEvent
	var ok bool

	switch d.state {
	case stateOpen:
		if ear < threshold {
			d.state = stateClosing
			d.closeStartMs = timestampMs
		}
	case stateClosing:
		switch {
		case ear < closedThreshold:
			d.state = stateClosed
		case ear >= threshold:
			d.state = stateOpen
		}
	case stateClosed:
		if ear >= closedThreshold {
			d.state = stateOpening
		}
	case stateOpening:
		switch {
		case ear >= threshold:
			duration := timestampMs - d.closeStartMs
			if duration >= d.cfg.MinBlinkDurationMs && duration <= d.cfg.MaxBlinkDurationMs {
				recorded = BlinkEvent{TimestampMs: timestampMs, DurationMs: duration}
				d.events = append(d.events, recorded)
				ok = true
			}
			d.state = stateOpen
		case ear < closedThreshold:
			d.state = stateClosed
		}
	}

	d.pruneOlderThan(timestampMs)
	return recorded, ok
}

func (d *BlinkDetector) pruneOlderThan(now float64) {
	cutoff := now - d.cfg.WindowMs
	i := 0
	for i < len(d.events) && d.events[i].TimestampMs < cutoff {
		i++
	}
	if i > 0 {
		d.events = append(d.events[:0], d.events[i:]...)
	}
}

// BlinkStats summarizes the current sliding window.
type BlinkStats struct {
	RateBlinksPerMin float64
	AvgDurationMs    float64
	Count            int
}

// Stats computes the current-window blink rate and average duration.
func (d *BlinkDetector) Stats() BlinkStats {
	count := len(d.events)
	if count == 0 {
		return BlinkStats{}
	}
	var sum float64
	for _, e := range d.events {
		sum += e.DurationMs
	}
	avg := sum / float64(count)

	var rate float64
	if count >= 2 {
		first := d.events[0].TimestampMs
		last := d.events[count-1].TimestampMs
		durationMin := (last - first) / 60_000
		if durationMin > 0 {
			rate = float64(count) / durationMin
		}
	}
	return BlinkStats{RateBlinksPerMin: rate, AvgDurationMs: avg, Count: count}
}

// Reset returns the detector to its initial Open state with no history.
func (d *BlinkDetector) Reset() {
	d.state = stateOpen
	d.events = d.events[:0]
}
