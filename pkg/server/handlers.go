package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mercator-hq/callisto/pkg/control"
)

// evaluateRequest is the optional dry-run payload. When the body is empty the
// server pulls current metrics and history from its provider.
type evaluateRequest struct {
	Current *control.Metrics  `json:"current,omitempty"`
	History []control.Metrics `json:"history,omitempty"`
	Window  int               `json:"window,omitempty"`
}

// applyResponse pairs an apply verdict with the decision it concerns.
type applyResponse struct {
	Decision *control.Decision   `json:"decision"`
	Result   control.ApplyResult `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.EvaluateOutcomes())
}

// handleEvaluate runs one dry-run evaluation tick. Nothing is applied; the
// proposals are cached so a follow-up apply call can reference them by ID.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed evaluate request: "+err.Error())
			return
		}
	}

	window := req.Window
	if window <= 0 {
		window = s.config.Scheduler.Window
	}

	var current control.Metrics
	var history []control.Metrics
	switch {
	case req.Current != nil:
		current = *req.Current
		history = req.History
	case s.provider != nil:
		ctx, cancel := s.providerContext(r)
		defer cancel()
		var err error
		current, err = s.provider.Snapshot(ctx)
		if err != nil {
			// No feed yet: evaluate with an empty window, degrading to the
			// insufficient-evidence path rather than failing the request.
			s.logger.Warn("provider snapshot unavailable", "error", err)
		}
		// Pull the full feed history: confidence scales with sample count,
		// the window only scopes pattern recognition.
		history, err = s.provider.History(ctx, 0)
		if err != nil {
			s.logger.Warn("provider history unavailable", "error", err)
		}
	default:
		writeError(w, http.StatusBadRequest, "no metrics supplied and no provider configured")
		return
	}

	analysis := s.engine.AnalyzeAndDecide(current, history, window)
	s.rememberProposals(analysis)
	if s.collector != nil {
		s.collector.ObserveAnalysis(analysis)
	}

	writeJSON(w, http.StatusOK, analysis)
}

// handleApply applies a previously proposed decision by ID. A safety or
// cooldown rejection is a 200 with the reasons; only an unknown ID is a 404.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	decision, confidence, ok := s.proposal(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown decision id; run an evaluation first")
		return
	}

	result := s.engine.ApplyDecision(r.Context(), decision, confidence)
	if s.collector != nil {
		s.collector.ObserveApply(decision.Domain, result)
	}

	writeJSON(w, http.StatusOK, applyResponse{Decision: decision, Result: result})
}

// handleRollback issues a compensating decision for an applied decision.
func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	compensation, result, err := s.engine.Rollback(r.Context(), id)
	if err != nil {
		if errors.Is(err, control.ErrDecisionNotFound) {
			writeError(w, http.StatusNotFound, "no applied decision with that id")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.collector != nil && compensation != nil {
		s.collector.ObserveApply(compensation.Domain, result)
	}

	writeJSON(w, http.StatusOK, applyResponse{Decision: compensation, Result: result})
}

// handleRecordOutcome attaches a measured outcome to an applied decision.
func (s *Server) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var outcome control.Outcome
	if err := json.NewDecoder(r.Body).Decode(&outcome); err != nil {
		writeError(w, http.StatusBadRequest, "malformed outcome: "+err.Error())
		return
	}

	if err := s.engine.RecordOutcome(id, outcome); err != nil {
		if errors.Is(err, control.ErrDecisionNotFound) {
			writeError(w, http.StatusNotFound, "no applied decision with that id")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) providerContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.config.Provider.Timeout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
