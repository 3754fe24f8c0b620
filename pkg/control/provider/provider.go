package provider

import (
	"context"
	"errors"
	"sync"

	"mercator-hq/callisto/pkg/control"
)

// ErrNoSnapshot indicates the provider has not observed any metrics yet.
var ErrNoSnapshot = errors.New("no metrics snapshot available")

// Provider supplies the engine with operational health metrics. Snapshot
// returns the most recent sample; History returns up to n recent samples,
// oldest first. Both honor context cancellation.
type Provider interface {
	Snapshot(ctx context.Context) (control.Metrics, error)
	History(ctx context.Context, n int) ([]control.Metrics, error)
}

// Static is a fixed-feed provider for tests and one-shot evaluations.
type Static struct {
	mu      sync.RWMutex
	current control.Metrics
	history []control.Metrics
	primed  bool
}

// NewStatic creates a provider that serves the given history, with the last
// sample as the current snapshot.
func NewStatic(history ...control.Metrics) *Static {
	s := &Static{}
	if len(history) > 0 {
		s.history = append(s.history, history...)
		s.current = history[len(history)-1]
		s.primed = true
	}
	return s
}

// Push appends a sample, making it the current snapshot.
func (s *Static) Push(m control.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, m)
	s.current = m
	s.primed = true
}

// Snapshot returns the most recent sample.
func (s *Static) Snapshot(ctx context.Context) (control.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return control.Metrics{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.primed {
		return control.Metrics{}, ErrNoSnapshot
	}
	return s.current, nil
}

// History returns up to n recent samples, oldest first.
func (s *Static) History(ctx context.Context, n int) ([]control.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.history
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]control.Metrics, len(history))
	copy(out, history)
	return out, nil
}
