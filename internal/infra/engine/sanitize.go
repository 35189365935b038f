package engine

import (
	"math"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/linalg"
	"github.com/tutu-network/amas/internal/infra/metrics"
)

const rawEventAlertRuleID = "raw_event_sanitization"

// sanitizeEvent repairs a raw event's scalar fields against non-finite
// values and out-of-domain negatives before anything downstream reads
// them, mirroring linalg's "repair locally, surface as a metric, never
// error" policy for recoverable numerical anomalies.
func (e *Engine) sanitizeEvent(ev domain.RawEvent) domain.RawEvent {
	repaired := false

	if ev.ResponseTimeMs < 0 || math.IsNaN(ev.ResponseTimeMs) || math.IsInf(ev.ResponseTimeMs, 0) {
		ev.ResponseTimeMs = 0
		repaired = true
	}
	if ev.RetryCount < 0 {
		ev.RetryCount = 0
		repaired = true
	}
	if ev.PauseCount < 0 {
		ev.PauseCount = 0
		repaired = true
	}
	if ev.SwitchCount < 0 {
		ev.SwitchCount = 0
		repaired = true
	}

	if ptr, ok := sanitizeNonNegative(ev.DwellMs); ok {
		ev.DwellMs = ptr
		repaired = true
	}
	if ptr, ok := sanitizeNonNegative(ev.PausedMs); ok {
		ev.PausedMs = ptr
		repaired = true
	}
	if ptr, ok := sanitizeNonNegative(ev.FocusLossMs); ok {
		ev.FocusLossMs = ptr
		repaired = true
	}
	if ptr, ok := sanitizeUnit(ev.Confidence); ok {
		ev.Confidence = ptr
		repaired = true
	}
	if ptr, ok := sanitizeUnit(ev.InteractionDensity); ok {
		ev.InteractionDensity = ptr
		repaired = true
	}

	if repaired {
		if e.metrics != nil {
			e.metrics.SanitizationEvents.WithLabelValues("raw_event").Inc()
		}
		metrics.GlobalAlertHistory().Fire(metrics.AlertEvent{
			RuleID:      rawEventAlertRuleID,
			RuleName:    "raw event sanitized",
			Metric:      "amas_linalg_sanitization_events_total",
			Severity:    metrics.AlertWarning,
			Status:      metrics.AlertFiring,
			Message:     "a raw event arrived with a non-finite or out-of-domain field and was repaired locally",
			Value:       1,
			TriggeredAt: e.clock.NowTimestamp(),
		})
	} else {
		metrics.GlobalAlertHistory().Resolve(rawEventAlertRuleID, e.clock.NowTimestamp())
	}
	return ev
}

// sanitizeNonNegative floors a possibly-nil pointer field at 0, reporting
// whether it had to replace the value.
func sanitizeNonNegative(p *float64) (*float64, bool) {
	if p == nil {
		return nil, false
	}
	v := linalg.SanitizeScalar(*p, 0)
	if v < 0 {
		v = 0
	}
	if v == *p {
		return p, false
	}
	return &v, true
}

// sanitizeUnit clamps a possibly-nil [0,1]-domain pointer field.
func sanitizeUnit(p *float64) (*float64, bool) {
	if p == nil {
		return nil, false
	}
	v := linalg.Clamp01(*p)
	if v == *p {
		return p, false
	}
	return &v, true
}
