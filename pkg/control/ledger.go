package control

import "time"

// Ledger is the bounded, per-domain, time-ordered history of decisions and
// their recorded outcomes. When a domain's history exceeds the capacity the
// oldest entry is evicted; eviction never reorders the remaining entries.
//
// Ledger is not safe for concurrent use on its own; the engine serializes
// access behind its mutex.
type Ledger struct {
	capacity int
	entries  map[Domain][]*Decision
	byID     map[string]*Decision
}

// NewLedger creates a ledger with the given per-domain capacity.
func NewLedger(capacity int) *Ledger {
	return &Ledger{
		capacity: capacity,
		entries:  make(map[Domain][]*Decision),
		byID:     make(map[string]*Decision),
	}
}

// Record appends a decision to its domain's history, evicting the oldest
// entry if the domain is at capacity.
func (l *Ledger) Record(decision *Decision) {
	history := l.entries[decision.Domain]
	if len(history) >= l.capacity {
		evicted := history[0]
		delete(l.byID, evicted.ID)
		history = history[1:]
	}
	l.entries[decision.Domain] = append(history, decision)
	l.byID[decision.ID] = decision
}

// Get returns the ledger entry with the given ID, or ErrDecisionNotFound.
func (l *Ledger) Get(id string) (*Decision, error) {
	d, ok := l.byID[id]
	if !ok {
		return nil, ErrDecisionNotFound
	}
	return d, nil
}

// Domain returns the time-ordered history for one domain. The returned slice
// is shared; callers must not modify it.
func (l *Ledger) Domain(domain Domain) []*Decision {
	return l.entries[domain]
}

// Len returns the total entry count across domains.
func (l *Ledger) Len() int {
	return len(l.byID)
}

// Tail returns up to n most recent entries for a domain, oldest first.
func (l *Ledger) Tail(domain Domain, n int) []*Decision {
	history := l.entries[domain]
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}

// SuccessRate computes successful applied-decision outcomes over total
// applied-decision outcomes across all domains. With no recorded outcomes it
// returns ok=false so the caller can fall back to the default rate rather
// than divide by zero.
func (l *Ledger) SuccessRate() (rate float64, ok bool) {
	var total, successes int
	for _, history := range l.entries {
		for _, d := range history {
			if d.Outcome == nil || !d.Applied {
				continue
			}
			total++
			if d.Outcome.Success {
				successes++
			}
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(successes) / float64(total), true
}

// CooldownRegistry maps each domain to the timestamp of its last successfully
// applied decision. A domain absent from the registry has never had an
// applied decision.
type CooldownRegistry struct {
	lastApplied map[Domain]time.Time
}

// NewCooldownRegistry creates an empty registry.
func NewCooldownRegistry() *CooldownRegistry {
	return &CooldownRegistry{lastApplied: make(map[Domain]time.Time)}
}

// Active reports whether the domain is still inside its cooldown window at
// the given instant.
func (r *CooldownRegistry) Active(domain Domain, cooldown time.Duration, now time.Time) bool {
	last, ok := r.lastApplied[domain]
	if !ok {
		return false
	}
	return now.Sub(last) < cooldown
}

// Stamp records an applied decision for the domain at the given instant.
func (r *CooldownRegistry) Stamp(domain Domain, now time.Time) {
	r.lastApplied[domain] = now
}

// Snapshot returns the last-applied timestamp per domain.
func (r *CooldownRegistry) Snapshot() map[Domain]time.Time {
	out := make(map[Domain]time.Time, len(r.lastApplied))
	for d, t := range r.lastApplied {
		out[d] = t
	}
	return out
}
