package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/config"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/logger"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/metrics"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/provider"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/scanner"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/server"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Dir: cfg.LogDir})
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
	defer log.Sync()

	m := metrics.New(prometheus.DefaultRegisterer)

	p, err := provider.FromConfig(cfg, m, log)
	if err != nil {
		log.Fatalw("Failed to build metrics provider", "error", err)
	}

	cache, closeCache, err := buildCache(cfg, log)
	if err != nil {
		log.Fatalw("Failed to build result cache", "error", err)
	}
	defer closeCache()

	deps := server.Deps{
		Scanner:  scanner.NewService(p, cache, m, log),
		Limiter:  store.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
		Cache:    cache,
		Gatherer: prometheus.DefaultGatherer,
		Metrics:  m,
		Log:      log,
	}
	if reporter, ok := p.(server.BreakerReporter); ok {
		deps.Breakers = reporter
	}

	srv := server.New(server.Config{
		Addr:          cfg.HTTPAddr,
		SweepInterval: cfg.SweepInterval,
	}, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("Starting degen scanner",
		"env", cfg.Environment,
		"provider", cfg.Provider,
		"cache", cfg.CacheBackend,
		"rate_limit", cfg.RateLimitMax,
		"rate_window", cfg.RateLimitWindow.String())

	if err := srv.Run(ctx); err != nil {
		log.Errorw("HTTP server stopped", "error", err)
		return
	}
	log.Infow("Shutdown complete")
}

func buildCache(cfg *config.Config, log *zap.SugaredLogger) (store.ResultCache, func() error, error) {
	if !cfg.CacheEnabled {
		log.Warnw("Result cache disabled")
		return nil, func() error { return nil }, nil
	}

	switch cfg.CacheBackend {
	case config.CacheMemory:
		cache, err := store.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return cache, func() error { return nil }, nil

	case config.CacheRedis:
		cache := store.NewRedisCache(store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, log)
		if err := cache.Ping(context.Background()); err != nil {
			log.Warnw("Redis not reachable at startup, scans will run uncached until it recovers",
				"addr", cfg.RedisAddr, "error", err)
		}
		return cache, cache.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
