package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/control"
	"mercator-hq/callisto/pkg/control/provider"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// Server is the operational HTTP server for a control engine.
type Server struct {
	config     *config.Config
	engine     *control.Engine
	provider   provider.Provider
	collector  *metrics.Collector
	logger     *slog.Logger
	httpServer *http.Server

	// proposals caches the decisions of the most recent evaluation so the
	// apply endpoint can reference them by ID. Applying replays safety
	// validation with the cached tick's confidence.
	mu          sync.Mutex
	proposals   map[string]*control.Decision
	lastTickCfd float64
}

// New creates an operational server. The collector may be nil when metrics
// are disabled.
func New(cfg *config.Config, engine *control.Engine, p provider.Provider, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:    cfg,
		engine:    engine,
		provider:  p,
		collector: collector,
		logger:    logger.With("component", "server"),
		proposals: make(map[string]*control.Decision),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting operational server", "address", s.config.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// routes builds the request router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /outcomes", s.handleOutcomes)
	mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /decisions/{id}/apply", s.handleApply)
	mux.HandleFunc("POST /decisions/{id}/rollback", s.handleRollback)
	mux.HandleFunc("POST /outcomes/{id}", s.handleRecordOutcome)

	if s.collector != nil {
		mux.Handle("GET /metrics", s.collector.Handler())
	}

	return mux
}

// rememberProposals caches one evaluation's proposals for later application.
func (s *Server) rememberProposals(analysis *control.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals = make(map[string]*control.Decision, len(analysis.Decisions))
	for _, d := range analysis.Decisions {
		s.proposals[d.ID] = d
	}
	s.lastTickCfd = analysis.Confidence
}

// proposal looks up a cached proposal by ID.
func (s *Server) proposal(id string) (*control.Decision, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.proposals[id]
	return d, s.lastTickCfd, ok
}
