// Package server exposes message analysis over HTTP for mail-client plugins.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/mailfacts/internal/logger"
	"github.com/ppiankov/mailfacts/internal/model"
	"github.com/ppiankov/mailfacts/internal/source"
	"github.com/ppiankov/mailfacts/internal/worker"
)

// Analyzer turns a resolved mail source into a report
type Analyzer interface {
	Analyze(ctx context.Context, src source.MailSource) (*model.Report, error)
}

// Server routes analysis requests to an Analyzer
type Server struct {
	cfg      model.ServerConfig
	analyzer Analyzer
	limiter  *worker.Limiter
	router   *chi.Mux
	started  time.Time
}

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	HTML    bool   `json:"html"` // Body is HTML and must be reduced to text first
}

// New creates a server for cfg
func New(cfg model.ServerConfig, analyzer Analyzer) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize),
		started:  time.Now(),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/api/v1/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/api/v1/analyze", s.handleAnalyze)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sweep.C:
			if n := s.limiter.Sweep(10 * time.Minute); n > 0 {
				logger.Debug("dropped idle client limiters", "count", n)
			}
		case <-ctx.Done():
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	body := req.Body
	if req.HTML {
		text, err := source.HTMLToText(body)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid html body", err)
			return
		}
		body = text
	}

	report, err := s.analyzer.Analyze(r.Context(), source.FromStrings(req.Subject, body))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			respondError(w, http.StatusServiceUnavailable, "analysis timed out", err)
			return
		}
		logger.Error("analysis failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		respondError(w, http.StatusInternalServerError, "analysis failed", err)
		return
	}
	report.Source = "http"

	respondJSON(w, http.StatusOK, report)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
