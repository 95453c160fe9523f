// Package daemon exposes the analyzer over HTTP for decompiler-plugin
// integrations that do not want to shell out to the CLI per function.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pseudomancer/pseudomancer/internal/analyzer"
	"github.com/pseudomancer/pseudomancer/internal/config"
	"github.com/pseudomancer/pseudomancer/internal/llm"
	"github.com/pseudomancer/pseudomancer/internal/llm/ollama"
	"github.com/pseudomancer/pseudomancer/internal/observability"
)

// Server hosts the analysis endpoint plus health and metrics.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *analyzer.Analyzer
	metrics  *observability.Metrics
}

// NewServer constructs a daemon instance with an Ollama-backed analyzer.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	metrics := observability.NewMetrics()
	provider := ollama.NewProvider("ollama", cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		analyzer: analyzer.New(provider, metrics, logger),
		metrics:  metrics,
	}
}

// NewServerWithAnalyzer wires an explicit analyzer, used by tests.
func NewServerWithAnalyzer(cfg *config.Config, logger *zap.Logger, a *analyzer.Analyzer, m *observability.Metrics) *Server {
	return &Server{cfg: cfg, logger: logger, analyzer: a, metrics: m}
}

// Handler returns the daemon's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/metrics", s.metricsHandler)
	mux.HandleFunc("/api/analyze", s.analyzeHandler)
	return mux
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting pseudomancer daemon", zap.String("addr", s.cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down pseudomancer daemon")
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// analyzeRequest is the /api/analyze request body.
type analyzeRequest struct {
	Code string `json:"code"`
}

// analyzeResponse is the /api/analyze response body.
type analyzeResponse struct {
	FunctionName string                 `json:"function_name"`
	Comment      string                 `json:"comment"`
	Variables    []llm.RenameSuggestion `json:"variables"`
	Rewritten    string                 `json:"rewritten"`
	Output       string                 `json:"output"`
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	rep, err := s.analyzer.Analyze(r.Context(), req.Code)
	if err != nil {
		var q *llm.QueryError
		var p *llm.ParseError
		switch {
		case errors.As(err, &q):
			writeError(w, http.StatusBadGateway, err.Error())
		case errors.As(err, &p):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analyzeResponse{
		FunctionName: rep.Result.FunctionName,
		Comment:      rep.Result.Comment,
		Variables:    rep.Result.Variables,
		Rewritten:    rep.Rewritten,
		Output:       rep.Output(),
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Server.MetricsEnabled {
		http.NotFound(w, r)
		return
	}

	promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
