package store

import (
	"context"
	"errors"
	"sync"

	"mercator-hq/callisto/pkg/control"
)

// ErrNotFound indicates the store holds no decision with the requested ID.
var ErrNotFound = errors.New("decision not found in store")

// Store persists applied decisions for audit. It extends the engine's
// DecisionRecorder hook with read access.
type Store interface {
	control.DecisionRecorder

	// Decision returns one stored decision by ID.
	Decision(ctx context.Context, id string) (*control.Decision, error)

	// List returns stored decisions for a domain, newest first, up to limit.
	// An empty domain lists across all domains.
	List(ctx context.Context, domain control.Domain, limit int) ([]*control.Decision, error)

	// Close releases backend resources.
	Close() error
}

// Memory is an in-memory store. All data is lost when the process exits.
// Memory is thread-safe.
type Memory struct {
	mu        sync.RWMutex
	decisions []*control.Decision
	byID      map[string]*control.Decision
}

// NewMemory creates an in-memory audit store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]*control.Decision)}
}

// RecordDecision stores a copy of the decision.
func (m *Memory) RecordDecision(ctx context.Context, decision *control.Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := *decision
	if decision.Outcome != nil {
		outcome := *decision.Outcome
		cp.Outcome = &outcome
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, &cp)
	m.byID[cp.ID] = &cp
	return nil
}

// Decision returns one stored decision by ID.
func (m *Memory) Decision(ctx context.Context, id string) (*control.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// List returns stored decisions, newest first.
func (m *Memory) List(ctx context.Context, domain control.Domain, limit int) ([]*control.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*control.Decision
	for i := len(m.decisions) - 1; i >= 0; i-- {
		d := m.decisions[i]
		if domain != "" && d.Domain != domain {
			continue
		}
		cp := *d
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}
