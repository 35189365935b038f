package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistry_RegistersWithoutPanicking(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)
	r.DecisionsTotal.WithLabelValues("linucb").Inc()
	r.TrustScore.WithLabelValues("linucb").Set(0.8)
	r.RewardImmediate.Observe(0.6)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatalf("expected at least one registered metric family")
	}
}

func TestAlertHistory_FireDedupesActiveByRuleID(t *testing.T) {
	h := newAlertHistory()
	h.Fire(AlertEvent{RuleID: "r1", Severity: AlertWarning, TriggeredAt: time.Unix(0, 0)})
	h.Fire(AlertEvent{RuleID: "r1", Severity: AlertCritical, TriggeredAt: time.Unix(1, 0)})
	if len(h.ActiveAlerts()) != 1 {
		t.Fatalf("expected a single active alert per rule ID, got %d", len(h.ActiveAlerts()))
	}
}

func TestAlertHistory_ResolveMovesOutOfActive(t *testing.T) {
	h := newAlertHistory()
	h.Fire(AlertEvent{RuleID: "r1", TriggeredAt: time.Unix(0, 0)})
	h.Resolve("r1", time.Unix(10, 0))
	if len(h.ActiveAlerts()) != 0 {
		t.Fatalf("expected alert removed from active set after resolve")
	}
	hist := h.History(0)
	if len(hist) != 2 {
		t.Fatalf("expected fire+resolve both recorded in history, got %d", len(hist))
	}
	if hist[0].Status != AlertResolved {
		t.Fatalf("expected most recent history entry to be the resolution")
	}
}

func TestAlertHistory_BoundedCapacity(t *testing.T) {
	h := newAlertHistory()
	for i := 0; i < alertHistoryCapacity+50; i++ {
		h.Fire(AlertEvent{RuleID: "churn", TriggeredAt: time.Unix(int64(i), 0)})
		h.Resolve("churn", time.Unix(int64(i), 0))
	}
	if len(h.ring) != alertHistoryCapacity {
		t.Fatalf("expected ring capped at %d, got %d", alertHistoryCapacity, len(h.ring))
	}
}

func TestGlobalAlertHistory_Singleton(t *testing.T) {
	a := GlobalAlertHistory()
	b := GlobalAlertHistory()
	if a != b {
		t.Fatalf("expected GlobalAlertHistory to return the same instance")
	}
}
