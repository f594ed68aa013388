// Package web serves the vocabulary tagging JSON API over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/corey/cefrtag/internal/config"
	"github.com/corey/cefrtag/internal/domain/tagger"
	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
)

// Queries is what the server needs from the application.
type Queries interface {
	Report(ctx context.Context, text string) (tagger.Report, error)
	Stats(ctx context.Context) (ports.StatsResult, error)
	Check(ctx context.Context, word string) (vocab.CheckResult, error)
	Level(ctx context.Context, name string, limit int) (ports.LevelResult, error)
	Reload(ctx context.Context) (ports.HealthResult, error)
	Health() ports.HealthResult
}

// Server serves the JSON API.
type Server struct {
	queries  Queries
	cfg      config.ServerConfig
	logger   *slog.Logger
	listener net.Listener
	httpSrv  *http.Server
	stopOnce sync.Once
}

// NewServer creates an HTTP server. Nothing listens until Start.
func NewServer(queries Queries, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{queries: queries, cfg: cfg, logger: logger}
}

// Handler returns the routed API wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/vocabulary/tag", s.handleTag)
	mux.HandleFunc("GET /api/v1/vocabulary/stats", s.handleStats)
	mux.HandleFunc("POST /api/v1/vocabulary/check-word", s.handleCheckWord)
	mux.HandleFunc("GET /api/v1/vocabulary/level/{level}", s.handleLevel)
	mux.HandleFunc("POST /api/v1/vocabulary/reload", s.handleReload)

	return Chain(
		RequestID(),
		Logger(s.logger),
		Recovery(s.logger),
	)(mux)
}

// Start binds cfg.Addr() and serves in the background.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpSrv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http.serve", slog.String("error", err.Error()))
		}
	}()
	s.logger.Info("http.listening", slog.String("addr", s.Addr()))
	return nil
}

// Stop gracefully shuts down the server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv == nil {
			return
		}
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Warn("http.shutdown", slog.String("error", err.Error()))
		}
	})
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr()
}

// URL returns the base URL of the API.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}
