package engine

import "time"

// StateChange is one notable user-state transition, kept for observability
// only: it is never itself persisted by the core, matching the snapshot's
// JSON layers which carry current values, not history.
type StateChange struct {
	Field    string
	Subject  string // e.g. the word ID, for per-item fields like "mastered"
	OldValue string
	NewValue string
	At       time.Time
}

const auditRingCapacity = 500

// auditRing is a bounded, oldest-first ring of a single user's recent state
// changes, held in the bundle alongside its working state.
type auditRing struct {
	entries []StateChange
}

func (r *auditRing) push(change StateChange) {
	r.entries = append(r.entries, change)
	if len(r.entries) > auditRingCapacity {
		r.entries = r.entries[len(r.entries)-auditRingCapacity:]
	}
}

// recent returns the last n entries, newest first. n<=0 returns everything.
func (r *auditRing) recent(n int) []StateChange {
	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]StateChange, n)
	for i := 0; i < n; i++ {
		out[i] = r.entries[len(r.entries)-1-i]
	}
	return out
}

// recordChange appends a notable state transition to b's audit ring and
// bumps the matching counter, if a metrics registry is attached.
func (e *Engine) recordChange(b *bundle, field, subject, oldValue, newValue string, at time.Time) {
	b.audit.push(StateChange{Field: field, Subject: subject, OldValue: oldValue, NewValue: newValue, At: at})
	if e.metrics != nil {
		e.metrics.StateChangesTotal.WithLabelValues(field).Inc()
	}
}

// RecentChanges returns up to limit of userID's most recent notable state
// transitions, newest first. It reads only the in-memory cache: a user who
// has never been loaded this process returns nil, not an error, since the
// audit ring is observability-only and never persisted.
func (e *Engine) RecentChanges(userID string, limit int) []StateChange {
	e.cacheMu.Lock()
	b, ok := e.cache[userID]
	e.cacheMu.Unlock()
	if !ok {
		return nil
	}
	return b.audit.recent(limit)
}
