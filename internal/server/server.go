// Package server exposes the agenda importer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gardar/agendapdf/internal/config"
	"github.com/gardar/agendapdf/internal/importer"
	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/report"
)

// Importer is the part of the import pipeline the handlers use
type Importer interface {
	Import(ctx context.Context, name string, data []byte, source importer.Source) (*importer.Outcome, error)
	Lines(ctx context.Context, data []byte, source importer.Source) ([]agenda.Line, error)
}

// Options configures a Server
type Options struct {
	Importer Importer
	Gatherer prometheus.Gatherer // Defaults to the default registry
	Logger   zerolog.Logger
	Config   config.ServerConfig
	Report   report.Config // Layout of ?format=pdf responses, defaults when PageSize is empty
}

// Server serves the agenda API
type Server struct {
	importer Importer
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
	cfg      config.ServerConfig
	report   report.Config
}

// New creates a server
func New(opts Options) *Server {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	rep := opts.Report
	if rep.PageSize == "" {
		rep = report.DefaultConfig()
	}
	return &Server{
		importer: opts.Importer,
		gatherer: gatherer,
		logger:   opts.Logger,
		cfg:      opts.Config,
		report:   rep,
	}
}

// Handler returns the chi router with every route configured
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1/agendas", func(r chi.Router) {
		r.Post("/", s.importAgenda)
		r.Post("/lines", s.agendaLines)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
