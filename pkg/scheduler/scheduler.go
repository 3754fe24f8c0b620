package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/control"
	"mercator-hq/callisto/pkg/control/provider"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// Scheduler runs evaluation ticks on a cron schedule. It owns no engine
// state; everything it learns each tick flows through the engine and the
// metrics collector.
type Scheduler struct {
	config    config.SchedulerConfig
	timeout   time.Duration
	engine    *control.Engine
	provider  provider.Provider
	collector *metrics.Collector
	cron      *cron.Cron
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	ticking bool
}

// New creates an evaluation scheduler. The collector may be nil.
func New(cfg *config.Config, engine *control.Engine, p provider.Provider, collector *metrics.Collector, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		config:    cfg.Scheduler,
		timeout:   cfg.Provider.Timeout,
		engine:    engine,
		provider:  p,
		collector: collector,
		cron:      cron.New(),
		logger:    logger.With("component", "scheduler"),
	}
}

// Start begins scheduled evaluation based on the configured cron expression.
//
// Common expressions:
//   - "*/15 * * * *" - Every 15 minutes
//   - "0 * * * *"    - Hourly
//   - "0 */6 * * *"  - Every 6 hours
//
// If the scheduler is disabled or the schedule is empty, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled || s.config.Schedule == "" {
		s.logger.Info("evaluation schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runTick(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule evaluation: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("evaluation scheduler started",
		"schedule", s.config.Schedule,
		"window", s.config.Window,
		"auto_apply", s.config.AutoApply,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runTick executes one evaluation cycle, skipping if one is already running.
func (s *Scheduler) runTick(ctx context.Context) {
	s.mu.Lock()
	if s.ticking {
		s.mu.Unlock()
		s.logger.Warn("previous evaluation tick still running, skipping")
		return
	}
	s.ticking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.ticking = false
		s.mu.Unlock()
	}()

	if err := s.Tick(ctx); err != nil {
		s.logger.Error("evaluation tick failed", "error", err)
	}
}

// Tick runs one evaluation pass: snapshot, analyze, and optionally apply.
// It is exported so hosts can drive one-shot evaluations outside the cron
// schedule.
func (s *Scheduler) Tick(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	current, err := s.provider.Snapshot(pctx)
	if err != nil {
		return fmt.Errorf("snapshot unavailable: %w", err)
	}
	// Pull the full feed history: confidence scales with sample count, the
	// window only scopes pattern recognition.
	history, err := s.provider.History(pctx, 0)
	if err != nil {
		return fmt.Errorf("history unavailable: %w", err)
	}

	analysis := s.engine.AnalyzeAndDecide(current, history, s.config.Window)
	if s.collector != nil {
		s.collector.ObserveAnalysis(analysis)
	}

	s.logger.Info("evaluation tick completed",
		"proposals", len(analysis.Decisions),
		"confidence", analysis.Confidence,
		"risk_assessment", analysis.RiskAssessment,
	)

	if !s.config.AutoApply {
		return nil
	}

	for _, decision := range analysis.Decisions {
		result := s.engine.ApplyDecision(ctx, decision, analysis.Confidence)
		if s.collector != nil {
			s.collector.ObserveApply(decision.Domain, result)
		}
		if result.Applied {
			s.logger.Info("decision auto-applied",
				"decision_id", decision.ID,
				"domain", decision.Domain,
				"adjustment", decision.Action.Adjustment,
			)
		} else {
			s.logger.Info("decision rejected",
				"decision_id", decision.ID,
				"domain", decision.Domain,
				"reasons", result.Reasons,
			)
		}
	}

	return nil
}

// Stop stops the scheduler and waits for a running tick to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("evaluation scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled evaluation time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
