package vision

// EARSample is one timestamped eye-aspect-ratio observation.
type EARSample struct {
	Ear         float64
	TimestampMs float64
	IsClosed    bool
}

// PERCLOSConfig configures the sliding window used to compute the
// percentage-of-eyelid-closure fatigue proxy.
type PERCLOSConfig struct {
	WindowSeconds float64
	SampleRate    float64 // samples/sec, used to cap the window by count too
	ClosedThreshold float64
}

// DefaultPERCLOSConfig returns baseline defaults: 60s window, 10Hz.
func DefaultPERCLOSConfig() PERCLOSConfig {
	return PERCLOSConfig{WindowSeconds: 60, SampleRate: 10, ClosedThreshold: 0.25}
}

func (c PERCLOSConfig) maxSamples() int {
	n := int(c.WindowSeconds * c.SampleRate)
	if n <= 0 {
		n = 1
	}
	return n
}

// PERCLOSCalculator maintains a bounded window of EAR samples and derives
// the fraction of time the eyes were closed.
type PERCLOSCalculator struct {
	cfg     PERCLOSConfig
	samples []EARSample
}

// NewPERCLOSCalculator returns an empty calculator.
func NewPERCLOSCalculator(cfg PERCLOSConfig) *PERCLOSCalculator {
	return &PERCLOSCalculator{cfg: cfg, samples: make([]EARSample, 0, cfg.maxSamples())}
}

// AddSample records one EAR observation. A sample counts as closed only when
// 0 < ear < threshold; ear <= 0 indicates a dropped/invalid landmark read and
// is never counted closed.
func (p *PERCLOSCalculator) AddSample(ear, timestampMs float64) {
	isClosed := ear > 0 && ear < p.cfg.ClosedThreshold
	p.samples = append(p.samples, EARSample{Ear: ear, TimestampMs: timestampMs, IsClosed: isClosed})
	p.prune(timestampMs)
}

func (p *PERCLOSCalculator) prune(now float64) {
	cutoff := now - p.cfg.WindowSeconds*1000
	i := 0
	for i < len(p.samples) && p.samples[i].TimestampMs < cutoff {
		i++
	}
	if i > 0 {
		p.samples = append(p.samples[:0], p.samples[i:]...)
	}
	max := p.cfg.maxSamples()
	if len(p.samples) > max {
		p.samples = p.samples[len(p.samples)-max:]
	}
}

// PERCLOSResult is the calculator's current-window output.
type PERCLOSResult struct {
	Perclos        float64
	TotalFrames    int
	ClosedFrames   int
	WindowDurationMs float64
	IsValid        bool
}

// Calculate returns the fraction of closed frames in the current window.
// IsValid is false when the window hasn't accumulated enough samples yet
// (fewer than 30% of capacity), guarding against noisy early estimates.
func (p *PERCLOSCalculator) Calculate() PERCLOSResult {
	total := len(p.samples)
	if total == 0 {
		return PERCLOSResult{}
	}
	closed := 0
	for _, s := range p.samples {
		if s.IsClosed {
			closed++
		}
	}
	duration := p.samples[total-1].TimestampMs - p.samples[0].TimestampMs
	max := p.cfg.maxSamples()
	valid := float64(total) >= 0.3*float64(max)

	return PERCLOSResult{
		Perclos:          float64(closed) / float64(total),
		TotalFrames:      total,
		ClosedFrames:     closed,
		WindowDurationMs: duration,
		IsValid:          valid,
	}
}

// Reset clears all recorded samples.
func (p *PERCLOSCalculator) Reset() {
	p.samples = p.samples[:0]
}
