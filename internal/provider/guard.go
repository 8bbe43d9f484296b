package provider

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/metrics"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type GuardConfig struct {
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BreakerTimeout time.Duration
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxRetries:     2,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BreakerTimeout: 30 * time.Second,
	}
}

// GuardedSource wraps a Source with a circuit breaker and bounded exponential retries.
type GuardedSource struct {
	source  Source
	cfg     GuardConfig
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func NewGuardedSource(source Source, cfg GuardConfig, m *metrics.Metrics, log *zap.SugaredLogger) *GuardedSource {
	g := &GuardedSource{
		source:  source,
		cfg:     cfg,
		metrics: m,
		log:     log,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        source.Name(),
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Infow("Circuit breaker state changed",
				"source", name,
				"from", from.String(),
				"to", to.String())
		},
	})
	return g
}

func (g *GuardedSource) Name() string {
	return g.source.Name()
}

// State reports the breaker state: closed, half-open or open.
func (g *GuardedSource) State() string {
	return g.breaker.State().String()
}

func (g *GuardedSource) FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error) {
	var result *models.TokenMetrics

	operation := func() error {
		// permanent errors are kept out of the breaker's failure counts
		var permanent error
		_, err := g.breaker.Execute(func() (interface{}, error) {
			start := time.Now()
			fetched, err := g.source.FetchMetrics(ctx, address)
			g.metrics.ObserveUpstream(g.source.Name(), time.Since(start), err)

			switch {
			case err == nil:
				result = fetched
				return nil, nil
			case isPermanent(err):
				permanent = err
				return nil, nil
			default:
				return nil, err
			}
		})
		if permanent != nil {
			return backoff.Permanent(permanent)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(err)
		}
		return err
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(g.newBackoff(), g.cfg.MaxRetries), ctx)
	err := backoff.RetryNotify(operation, retry,
		func(err error, wait time.Duration) {
			g.log.Warnw("Upstream fetch failed, retrying",
				"source", g.source.Name(),
				"address", address,
				"error", err,
				"retry_in", wait)
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (g *GuardedSource) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.InitialBackoff
	b.MaxInterval = g.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.1
	return b
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrTokenNotFound) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
