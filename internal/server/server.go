// Package server exposes proposal generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/history"
	"github.com/spigell/proposal-writer/internal/metrics"
	"github.com/spigell/proposal-writer/internal/proposal"
)

const (
	defaultAddr      = ":8080"
	shutdownTimeout  = 10 * time.Second
	maxRequestBody   = 1 << 20
	requestIDHeader  = "X-Request-Id"
	defaultRateLimit = 30
)

// Generator produces a proposal for a request.
type Generator interface {
	Generate(ctx context.Context, req *freelance.Request) (*freelance.Proposal, error)
	Analyze(profile *freelance.Profile, job *freelance.Job) *proposal.Analysis
}

type Config struct {
	Addr        string
	CORSOrigins []string
	// RateLimit is the number of generation requests allowed per client IP per minute.
	RateLimit int
}

type Server struct {
	cfg       Config
	generator Generator
	history   *history.Store
	logger    *zap.Logger
	now       func() time.Time
}

// New builds a server. store may be nil, in which case history is not recorded.
func New(cfg Config, generator Generator, store *history.Store, logger *zap.Logger) *Server {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		cfg:       cfg,
		generator: generator,
		history:   store,
		logger:    logger,
		now:       time.Now,
	}
}

// Router constructs the HTTP handler with all middlewares and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(metrics.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: parseOrigins(s.cfg.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
		wr.Post("/api/generate-proposal", s.generateProposal)
	})
	r.Post("/api/analyze-job", s.analyzeJob)
	r.Get("/api/proposal-history", s.proposalHistory)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	metrics.Init()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// parseOrigins trims the configured origins and falls back to "*".
func parseOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
