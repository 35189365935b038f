package memory

import "math"

// MSMTConfig parameterizes the multi-scale trace combination and recall
// probability curve.
type MSMTConfig struct {
	Scales          [3]float64 // τ ∈ {1, 24, 168} hours
	Weights         [3]float64 // combination weights 0.2/0.3/0.5
	IncorrectWeight float64    // event weight when incorrect
	Slope           float64
	Threshold       float64
	Capacity        int // bounded FIFO size (≤100)
}

// DefaultMSMTConfig returns baseline defaults.
func DefaultMSMTConfig() MSMTConfig {
	return MSMTConfig{
		Scales:          [3]float64{1, 24, 168},
		Weights:         [3]float64{0.2, 0.3, 0.5},
		IncorrectWeight: 0.2,
		Slope:           1.5,
		Threshold:       0.3,
		Capacity:        100,
	}
}

// TraceEvent is one recorded review outcome in hours-since-epoch.
type TraceEvent struct {
	TimestampHours float64
	IsCorrect      bool
}

// Trace is a bounded FIFO of recent review events for one item.
type Trace struct {
	Events []TraceEvent
	Cap    int
}

// NewTrace returns an empty trace bounded at cfg.Capacity.
func NewTrace(cfg MSMTConfig) Trace {
	cap := cfg.Capacity
	if cap <= 0 {
		cap = 100
	}
	return Trace{Events: make([]TraceEvent, 0, cap), Cap: cap}
}

// Push appends a review event, evicting the oldest once at capacity.
func (t *Trace) Push(e TraceEvent) {
	t.Events = append(t.Events, e)
	if len(t.Events) > t.Cap {
		t.Events = t.Events[len(t.Events)-t.Cap:]
	}
}

// scaleTrace computes T_τ = Σ w_i·exp(−Δt_i/τ) over the trace, evaluated at
// nowHours.
func scaleTrace(t Trace, cfg MSMTConfig, tau, nowHours float64) float64 {
	var sum float64
	for _, e := range t.Events {
		dt := nowHours - e.TimestampHours
		if dt < 0 {
			dt = 0
		}
		w := 1.0
		if !e.IsCorrect {
			w = cfg.IncorrectWeight
		}
		sum += w * math.Exp(-dt/tau)
	}
	return sum
}

// Combined returns the weighted sum of the three scale traces.
func Combined(t Trace, cfg MSMTConfig, nowHours float64) float64 {
	var combined float64
	for i, tau := range cfg.Scales {
		combined += cfg.Weights[i] * scaleTrace(t, cfg, tau, nowHours)
	}
	return combined
}

// RecallProbability maps the combined trace through a logistic curve:
// σ(slope·(combined−threshold)).
func RecallProbability(cfg MSMTConfig, combined float64) float64 {
	x := cfg.Slope * (combined - cfg.Threshold)
	return 1 / (1 + math.Exp(-x))
}
