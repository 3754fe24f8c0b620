package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/control"
	"mercator-hq/callisto/pkg/control/provider"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// ============================================================================
// HTTP Surface Tests
// ============================================================================

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := config.Default()
	engine, err := control.NewEngine(&cfg.Engine, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	collector := metrics.NewCollector(cfg.Telemetry.Metrics)
	s := New(cfg, engine, provider.NewStatic(), collector, nil)
	return s, s.routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func noisyEvaluateRequest() evaluateRequest {
	current := control.Metrics{
		RENoiseRate:             0.35,
		FailureRatio:            0.05,
		EscalationEffectiveness: 0.85,
		SuppressionAccuracy:     0.9,
		SystemStability:         0.95,
		AlertVolume:             120,
		FalsePositiveRate:       0.1,
		MeanTimeToAck:           90,
	}
	history := make([]control.Metrics, 100)
	for i := range history {
		history[i] = current
	}
	return evaluateRequest{Current: &current, History: history, Window: 10}
}

func TestHealthAndStatus(t *testing.T) {
	_, h := newTestServer(t)

	if rec := doJSON(t, h, "GET", "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", rec.Code)
	}

	rec := doJSON(t, h, "GET", "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", rec.Code)
	}
	status := decode[control.Status](t, rec)
	if !status.Enabled {
		t.Error("expected enabled engine")
	}
	if status.RecentDecisionCount != 0 {
		t.Errorf("expected empty ledger, got %d", status.RecentDecisionCount)
	}
}

func TestEvaluate_DryRunWithInlineMetrics(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/evaluate", noisyEvaluateRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	analysis := decode[control.Analysis](t, rec)
	if len(analysis.Decisions) != 1 {
		t.Fatalf("expected one proposal, got %d", len(analysis.Decisions))
	}
	if analysis.Decisions[0].Domain != control.DomainWeightNudging {
		t.Errorf("expected weight_nudging proposal, got %s", analysis.Decisions[0].Domain)
	}
}

func TestEvaluate_MalformedBody(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest("POST", "/evaluate", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestEvaluate_EmptyBodyUsesProvider(t *testing.T) {
	_, h := newTestServer(t)

	// The static provider is empty: the engine degrades to the
	// insufficient-evidence path and returns a well-formed empty analysis.
	rec := doJSON(t, h, "POST", "/evaluate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	analysis := decode[control.Analysis](t, rec)
	if len(analysis.Decisions) != 0 {
		t.Errorf("expected no proposals from empty provider, got %d", len(analysis.Decisions))
	}
	if analysis.Patterns.Trend != control.TrendStable {
		t.Errorf("expected stable degradation, got %s", analysis.Patterns.Trend)
	}
}

func TestApply_FullFlow(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/evaluate", noisyEvaluateRequest())
	analysis := decode[control.Analysis](t, rec)
	id := analysis.Decisions[0].ID

	rec = doJSON(t, h, "POST", "/decisions/"+id+"/apply", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[applyResponse](t, rec)
	if !resp.Result.Applied {
		t.Fatalf("expected applied, got reasons %v", resp.Result.Reasons)
	}

	// Second evaluation proposes again; applying hits the cooldown and still
	// returns 200 - rejection is business data, not an error.
	rec = doJSON(t, h, "POST", "/evaluate", noisyEvaluateRequest())
	analysis = decode[control.Analysis](t, rec)
	if len(analysis.Decisions) != 1 {
		t.Fatalf("expected another proposal, got %d", len(analysis.Decisions))
	}

	rec = doJSON(t, h, "POST", "/decisions/"+analysis.Decisions[0].ID+"/apply", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for business rejection, got %d", rec.Code)
	}
	resp = decode[applyResponse](t, rec)
	if resp.Result.Applied {
		t.Fatal("expected cooldown rejection")
	}
	if len(resp.Result.Reasons) != 1 || resp.Result.Reasons[0] != control.ReasonCooldownActive {
		t.Errorf("expected [cooldown_active], got %v", resp.Result.Reasons)
	}
}

func TestApply_UnknownID(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/decisions/nope/apply", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown proposal, got %d", rec.Code)
	}
}

func TestRollback_Flow(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/evaluate", noisyEvaluateRequest())
	analysis := decode[control.Analysis](t, rec)
	id := analysis.Decisions[0].ID
	doJSON(t, h, "POST", "/decisions/"+id+"/apply", nil)

	rec = doJSON(t, h, "POST", "/decisions/"+id+"/rollback", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[applyResponse](t, rec)
	if !resp.Result.Applied {
		t.Fatalf("expected applied compensation, got %v", resp.Result.Reasons)
	}
	if resp.Decision.RollbackOf != id {
		t.Errorf("expected compensation of %s, got %s", id, resp.Decision.RollbackOf)
	}

	if rec := doJSON(t, h, "POST", "/decisions/ghost/rollback", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown decision, got %d", rec.Code)
	}
}

func TestOutcomes_Flow(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/outcomes", nil)
	report := decode[control.OutcomeReport](t, rec)
	if len(report.Evaluations) != 0 || report.OverallSuccessRate != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}

	rec = doJSON(t, h, "POST", "/evaluate", noisyEvaluateRequest())
	analysis := decode[control.Analysis](t, rec)
	id := analysis.Decisions[0].ID
	doJSON(t, h, "POST", "/decisions/"+id+"/apply", nil)

	rec = doJSON(t, h, "POST", "/outcomes/"+id, control.Outcome{Success: true, WindowMinutes: 60})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/outcomes", nil)
	report = decode[control.OutcomeReport](t, rec)
	if len(report.Evaluations) != 1 {
		t.Fatalf("expected one evaluation, got %d", len(report.Evaluations))
	}
	if report.OverallSuccessRate != 1 {
		t.Errorf("expected success rate 1, got %v", report.OverallSuccessRate)
	}

	if rec := doJSON(t, h, "POST", "/outcomes/ghost", control.Outcome{}); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown decision, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	doJSON(t, h, "POST", "/evaluate", noisyEvaluateRequest())

	rec := doJSON(t, h, "GET", "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("callisto_evaluation_ticks_total")) {
		t.Error("expected tick counter in scrape output")
	}
}
