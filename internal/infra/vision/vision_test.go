package vision

import "testing"

func TestBlinkDetector_RecordsValidBlink(t *testing.T) {
	d := NewBlinkDetector(DefaultBlinkDetectorConfig())
	d.Detect(0.30, 0)   // open
	d.Detect(0.20, 50)  // closing
	d.Detect(0.10, 100) // closed
	d.Detect(0.22, 150) // opening
	_, ok := d.Detect(0.30, 200) // open again, 150ms since closing began
	if !ok {
		t.Fatalf("expected a blink to be recorded")
	}
}

func TestBlinkDetector_TooFastIsDropped(t *testing.T) {
	d := NewBlinkDetector(DefaultBlinkDetectorConfig())
	d.Detect(0.30, 0)
	d.Detect(0.20, 1)
	d.Detect(0.10, 2)
	d.Detect(0.22, 3)
	_, ok := d.Detect(0.30, 4) // 3ms since closing began, below MinBlinkDurationMs
	if ok {
		t.Fatalf("expected too-fast blink to be dropped")
	}
}

func TestBlinkDetector_TooSlowIsDropped(t *testing.T) {
	d := NewBlinkDetector(DefaultBlinkDetectorConfig())
	d.Detect(0.30, 0)
	d.Detect(0.20, 10)
	d.Detect(0.10, 20)
	d.Detect(0.22, 30)
	_, ok := d.Detect(0.30, 100_000) // way over MaxBlinkDurationMs
	if ok {
		t.Fatalf("expected too-slow blink to be dropped")
	}
}

func TestBlinkDetector_StatsAfterWindow(t *testing.T) {
	d := NewBlinkDetector(DefaultBlinkDetectorConfig())
	base := 0.0
	for i := 0; i < 3; i++ {
		d.Detect(0.30, base)
		d.Detect(0.20, base+20)
		d.Detect(0.10, base+40)
		d.Detect(0.22, base+60)
		d.Detect(0.30, base+100)
		base += 10_000
	}
	stats := d.Stats()
	if stats.Count == 0 {
		t.Fatalf("expected recorded blinks in stats")
	}
	if stats.AvgDurationMs <= 0 {
		t.Fatalf("expected positive avg duration, got %v", stats.AvgDurationMs)
	}
}

func TestPERCLOS_EmptyIsInvalid(t *testing.T) {
	p := NewPERCLOSCalculator(DefaultPERCLOSConfig())
	r := p.Calculate()
	if r.IsValid {
		t.Fatalf("expected empty window to be invalid")
	}
}

func TestPERCLOS_NonPositiveEarNeverCountsClosed(t *testing.T) {
	p := NewPERCLOSCalculator(DefaultPERCLOSConfig())
	p.AddSample(0, 0) // dropped landmark read
	r := p.Calculate()
	if r.ClosedFrames != 0 {
		t.Fatalf("expected ear<=0 to never count as closed, got %d closed", r.ClosedFrames)
	}
}

func TestPERCLOS_FractionClosed(t *testing.T) {
	cfg := DefaultPERCLOSConfig()
	p := NewPERCLOSCalculator(cfg)
	max := cfg.maxSamples()
	need := int(0.3*float64(max)) + 1
	for i := 0; i < need; i++ {
		ts := float64(i) * (1000 / cfg.SampleRate)
		if i%2 == 0 {
			p.AddSample(0.1, ts) // closed
		} else {
			p.AddSample(0.4, ts) // open
		}
	}
	r := p.Calculate()
	if !r.IsValid {
		t.Fatalf("expected window to be valid after %d samples (cap %d)", need, max)
	}
	if r.Perclos <= 0 || r.Perclos >= 1 {
		t.Fatalf("expected a mixed perclos fraction, got %v", r.Perclos)
	}
}

func TestVisualFatigueFromSignals_InvalidPERCLOSHasZeroConfidence(t *testing.T) {
	score, conf := VisualFatigueFromSignals(BlinkStats{}, PERCLOSResult{IsValid: false})
	if conf != 0 {
		t.Fatalf("expected zero confidence from an invalid PERCLOS window, got %v", conf)
	}
	_ = score
}

func TestVisualFatigueFromSignals_HighPerclosRaisesScore(t *testing.T) {
	low, _ := VisualFatigueFromSignals(BlinkStats{Count: 3, RateBlinksPerMin: 16}, PERCLOSResult{Perclos: 0.05, IsValid: true})
	high, _ := VisualFatigueFromSignals(BlinkStats{Count: 3, RateBlinksPerMin: 16}, PERCLOSResult{Perclos: 0.6, IsValid: true})
	if !(high > low) {
		t.Fatalf("expected higher PERCLOS to raise the fused score: %v vs %v", low, high)
	}
}

func TestPERCLOS_ResetClearsSamples(t *testing.T) {
	p := NewPERCLOSCalculator(DefaultPERCLOSConfig())
	p.AddSample(0.1, 0)
	p.Reset()
	r := p.Calculate()
	if r.TotalFrames != 0 {
		t.Fatalf("expected reset calculator to have no frames")
	}
}
