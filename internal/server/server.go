// Package server exposes the token scanner over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/metrics"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Scanner produces an analysis for a validated mint address.
type Scanner interface {
	Scan(ctx context.Context, address string) (*models.AnalysisResult, bool, error)
}

// BreakerReporter exposes upstream circuit breaker states for the health check.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

type Config struct {
	Addr            string
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

type Deps struct {
	Scanner  Scanner
	Limiter  *store.RateLimiter
	Cache    store.ResultCache
	Breakers BreakerReporter // optional
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
	Log      *zap.SugaredLogger
}

type Server struct {
	cfg      Config
	scanner  Scanner
	limiter  *store.RateLimiter
	cache    store.ResultCache
	breakers BreakerReporter
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
	now      func() time.Time
}

func New(cfg Config, deps Deps) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Server{
		cfg:      cfg,
		scanner:  deps.Scanner,
		limiter:  deps.Limiter,
		cache:    deps.Cache,
		breakers: deps.Breakers,
		gatherer: deps.Gatherer,
		metrics:  deps.Metrics,
		log:      deps.Log,
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/health", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return s.requestLogger(s.recoverer(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully. Expired cache
// entries and rate limit windows are swept in the background while it runs.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()

	var sweepers []store.Sweeper
	if s.limiter != nil {
		sweepers = append(sweepers, s.limiter)
	}
	if s.cache != nil {
		sweepers = append(sweepers, s.cache)
	}
	go store.RunJanitor(janitorCtx, s.cfg.SweepInterval, s.log, sweepers...)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("HTTP server listening", "addr", s.cfg.Addr)
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

	s.log.Infow("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
