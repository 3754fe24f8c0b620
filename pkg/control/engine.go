package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DecisionRecorder receives every applied decision for durable audit storage.
// Recording failures are logged and do not unwind an application: the ledger,
// not the recorder, is the engine's source of truth.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, decision *Decision) error
}

// Engine is the control loop orchestrator. It is an explicitly constructed,
// dependency-injected object owning its own ledger and cooldown registry, so
// multiple independent engines (e.g. per tenant) can coexist in one process.
type Engine struct {
	config     *Config
	rails      SafetyRails
	recognizer *PatternRecognizer
	estimator  *ConfidenceEstimator
	simulator  *ImpactSimulator
	validator  *SafetyValidator
	ledger     *Ledger
	cooldowns  *CooldownRegistry
	recorder   DecisionRecorder
	logger     *slog.Logger

	// mu serializes all mutation of rails, ledger, and cooldown state.
	// AnalyzeAndDecide takes it only briefly, to read the success rate.
	mu sync.Mutex

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewEngine creates an engine over the given configuration. Configuration is
// validated here and is immutable for the engine's lifetime; restart to
// change thresholds.
func NewEngine(config *Config, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	for domain := range config.Domains {
		if _, ok := evaluators[domain]; !ok {
			return nil, fmt.Errorf("%w: no evaluator for domain %s", ErrUnknownDomain, domain)
		}
	}

	e := &Engine{
		config:     config,
		rails:      config.Rails,
		recognizer: NewPatternRecognizer(),
		estimator:  NewConfidenceEstimator(),
		simulator:  NewImpactSimulator(),
		ledger:     NewLedger(config.LedgerCapacity),
		cooldowns:  NewCooldownRegistry(),
		logger:     logger.With("component", "control.engine"),
		now:        time.Now,
	}
	e.validator = NewSafetyValidator(&e.rails)
	return e, nil
}

// AttachRecorder wires an audit recorder for applied decisions. Call before
// the first tick; the recorder is not guarded for replacement mid-flight.
func (e *Engine) AttachRecorder(r DecisionRecorder) {
	e.recorder = r
}

// AnalyzeAndDecide runs one evaluation tick: pattern recognition, confidence
// estimation, and the per-domain evaluators, followed by impact simulation of
// every proposal. It mutates nothing - two calls with identical inputs and no
// intervening ApplyDecision produce structurally identical proposals (only
// decision IDs and timestamps differ).
func (e *Engine) AnalyzeAndDecide(current Metrics, history []Metrics, window int) *Analysis {
	patterns := e.recognizer.Recognize(history, window)
	variance := populationVariance(windowedPrimary(history, window))
	confidence := e.estimator.Estimate(len(history), variance, e.historicalSuccessRate())

	analysis := &Analysis{
		Patterns:       patterns,
		Confidence:     confidence,
		Simulations:    make(map[string]*Simulation),
		RiskAssessment: RiskNoAction,
		EvaluatedAt:    e.now().UTC(),
	}

	if !e.enabled() {
		return analysis
	}
	if len(history) < e.config.Rails.MinimumSampleSize {
		e.logger.Debug("insufficient history for proposals",
			"samples", len(history),
			"minimum", e.config.Rails.MinimumSampleSize,
		)
		return analysis
	}

	// The evaluators read only immutable per-tick inputs, so they fan out
	// concurrently; results are collected in stable domain order.
	domains := Domains()
	proposals := make([]*Decision, len(domains))
	var wg sync.WaitGroup
	for i, domain := range domains {
		cfg, ok := e.config.Domains[domain]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, domain Domain, cfg DomainConfig) {
			defer wg.Done()
			proposals[i] = evaluators[domain](evaluatorInput{
				metrics:    current,
				patterns:   patterns,
				confidence: confidence,
				config:     cfg,
			})
		}(i, domain, cfg)
	}
	wg.Wait()

	var riskSum float64
	for _, d := range proposals {
		if d == nil {
			continue
		}
		sim := e.simulator.Simulate(d, current)
		analysis.Decisions = append(analysis.Decisions, d)
		analysis.Simulations[d.ID] = sim
		riskSum += sim.Risk
	}

	if n := len(analysis.Decisions); n > 0 {
		analysis.RiskAssessment = assessRisk(riskSum / float64(n))
	}

	e.logger.Debug("evaluation tick complete",
		"proposals", len(analysis.Decisions),
		"trend", patterns.Trend,
		"volatility", patterns.Volatility,
		"confidence", confidence,
		"risk", analysis.RiskAssessment,
	)

	return analysis
}

// ApplyDecision is the only path that mutates durable state. It re-validates
// the decision against the current safety rails and the supplied apply-time
// confidence (never a stale evaluation-time verdict), enforces the domain
// cooldown, records the decision in the ledger, and stamps the cooldown
// registry. Rejections are reported as reasons, never as errors.
func (e *Engine) ApplyDecision(ctx context.Context, decision *Decision, confidence float64) ApplyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := e.validator.Validate(decision, confidence)
	reasons := result.Reasons

	now := e.now().UTC()
	if e.cooldowns.Active(decision.Domain, e.config.cooldownFor(decision.Domain), now) {
		reasons = append(reasons, ReasonCooldownActive)
	}

	if len(reasons) > 0 {
		e.logger.Info("decision rejected",
			"decision_id", decision.ID,
			"domain", decision.Domain,
			"reasons", reasons,
		)
		return ApplyResult{Applied: false, Reasons: reasons}
	}

	decision.Applied = true
	decision.AppliedAt = now
	e.ledger.Record(decision)
	e.cooldowns.Stamp(decision.Domain, now)

	e.record(ctx, decision)

	e.logger.Info("decision applied",
		"decision_id", decision.ID,
		"domain", decision.Domain,
		"action", decision.Action.Type,
		"adjustment", decision.Action.Adjustment,
	)
	return ApplyResult{Applied: true}
}

// RecordOutcome attaches a measured outcome to an applied ledger entry. A
// decision carries at most one outcome; the entry is otherwise immutable.
func (e *Engine) RecordOutcome(decisionID string, outcome Outcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	decision, err := e.ledger.Get(decisionID)
	if err != nil {
		return &DecisionError{DecisionID: decisionID, Op: "record outcome", Cause: err}
	}
	if decision.Outcome != nil {
		return &DecisionError{DecisionID: decisionID, Op: "record outcome", Cause: ErrOutcomeAlreadyRecorded}
	}
	decision.Outcome = &outcome
	return nil
}

// Rollback issues a compensating decision that negates an applied decision's
// adjustment. The compensation bypasses trigger logic and the domain cooldown
// (waiting out the cooldown of a harmful change defeats the point) but still
// passes the safety rails, so the human override blocks rollbacks too. The
// original entry's outcome, if present, is flagged RollbackRequired.
func (e *Engine) Rollback(ctx context.Context, decisionID string) (*Decision, ApplyResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	original, err := e.ledger.Get(decisionID)
	if err != nil {
		return nil, ApplyResult{}, &DecisionError{DecisionID: decisionID, Op: "rollback", Cause: err}
	}
	if !original.Applied {
		return nil, ApplyResult{}, &DecisionError{DecisionID: decisionID, Op: "rollback",
			Cause: fmt.Errorf("decision was never applied")}
	}

	compensation := newDecision(original.Domain, Trigger{
		Metric:     original.Trigger.Metric,
		Value:      original.Trigger.Value,
		Threshold:  original.Trigger.Threshold,
		Confidence: 1,
	}, Action{
		Type:           "rollback",
		Adjustment:     -original.Action.Adjustment,
		ExpectedImpact: fmt.Sprintf("restore parameter to pre-decision value %.3f", original.PreviousValue),
	})
	compensation.RollbackOf = original.ID

	result := e.validator.Validate(compensation, 1)
	if !result.Valid {
		return compensation, ApplyResult{Applied: false, Reasons: result.Reasons}, nil
	}

	now := e.now().UTC()
	compensation.Applied = true
	compensation.AppliedAt = now
	e.ledger.Record(compensation)
	e.cooldowns.Stamp(compensation.Domain, now)

	if original.Outcome != nil {
		original.Outcome.RollbackRequired = true
	}

	e.record(ctx, compensation)

	e.logger.Warn("decision rolled back",
		"decision_id", original.ID,
		"compensation_id", compensation.ID,
		"domain", original.Domain,
	)
	return compensation, ApplyResult{Applied: true}, nil
}

// outcomeEvaluationDepth is how many recent ledger entries per domain are
// scanned for outcomes.
const outcomeEvaluationDepth = 5

// EvaluateOutcomes scans each domain's recent ledger entries that carry an
// outcome, extracts qualitative learnings, and returns the aggregate success
// rate. The rate feeds the confidence estimator on the next tick, closing the
// control loop. With zero evaluated outcomes the rate is 0.
func (e *Engine) EvaluateOutcomes() *OutcomeReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := &OutcomeReport{Evaluations: []Learning{}}
	var successes int
	for _, domain := range Domains() {
		for _, d := range e.ledger.Tail(domain, outcomeEvaluationDepth) {
			if d.Outcome == nil {
				continue
			}
			label := string(domain) + "_needs_different_approach"
			if d.Outcome.Success {
				label = string(domain) + "_adjustment_effective"
				successes++
			}
			report.Evaluations = append(report.Evaluations, Learning{
				Domain:     domain,
				Label:      label,
				DecisionID: d.ID,
			})
		}
	}
	if n := len(report.Evaluations); n > 0 {
		report.OverallSuccessRate = float64(successes) / float64(n)
	}
	return report
}

// SetEnabled toggles whether the engine proposes and applies decisions.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rails.Enabled = enabled
}

// SetHumanOverride toggles the kill switch. While set, no decision - not even
// a rollback - is valid.
func (e *Engine) SetHumanOverride(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rails.HumanOverride = active
}

// Status reports a point-in-time snapshot for operators.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().UTC()
	cooldowns := make(map[Domain]time.Time)
	for domain, last := range e.cooldowns.Snapshot() {
		window := e.config.cooldownFor(domain)
		if now.Sub(last) < window {
			cooldowns[domain] = last.Add(window)
		}
	}

	rate, _ := e.ledger.SuccessRate()
	return Status{
		Enabled:             e.rails.Enabled,
		Cooldowns:           cooldowns,
		RecentDecisionCount: e.ledger.Len(),
		SuccessRate:         rate,
	}
}

// Decision returns a ledger entry by ID.
func (e *Engine) Decision(id string) (*Decision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Get(id)
}

func (e *Engine) enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rails.Enabled
}

func (e *Engine) historicalSuccessRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rate, ok := e.ledger.SuccessRate(); ok {
		return rate
	}
	return defaultSuccessRate
}

// record forwards an applied decision to the audit recorder, if attached.
func (e *Engine) record(ctx context.Context, decision *Decision) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordDecision(ctx, decision); err != nil {
		e.logger.Error("failed to record decision to audit store",
			"decision_id", decision.ID,
			"error", err,
		)
	}
}

// windowedPrimary extracts the primary signal's series over the last
// windowSize samples.
func windowedPrimary(history []Metrics, windowSize int) []float64 {
	window := history
	if windowSize > 0 && len(history) > windowSize {
		window = history[len(history)-windowSize:]
	}
	series := make([]float64, len(window))
	for i, m := range window {
		series[i] = m.RENoiseRate
	}
	return series
}

// assessRisk maps mean simulated risk to the operator-facing band.
func assessRisk(meanRisk float64) RiskAssessment {
	switch {
	case meanRisk >= 0.7:
		return RiskHigh
	case meanRisk >= 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}
