// Package scanner runs a token scan end to end: cache, metrics provider, scoring engine.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/metrics"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/provider"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/scoring"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/store"
	"go.uber.org/zap"
)

type Service struct {
	provider provider.Provider
	cache    store.ResultCache
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
}

// NewService wires a scan pipeline. cache may be nil to disable caching.
func NewService(p provider.Provider, cache store.ResultCache, m *metrics.Metrics, log *zap.SugaredLogger) *Service {
	return &Service{
		provider: p,
		cache:    cache,
		metrics:  m,
		log:      log,
	}
}

// Scan returns the analysis for address and whether it was served from cache.
// The address must already be validated by the caller.
func (s *Service) Scan(ctx context.Context, address string) (*models.AnalysisResult, bool, error) {
	if s.cache != nil {
		cached, ok := s.cache.Get(ctx, address)
		s.metrics.ObserveCache(ok)
		if ok {
			return cached, true, nil
		}
	}

	start := time.Now()
	tokenMetrics, err := s.provider.FetchMetrics(ctx, address)
	if err != nil {
		return nil, false, fmt.Errorf("fetch metrics for %s: %w", address, err)
	}

	result := scoring.Analyze(*tokenMetrics)
	s.metrics.ObserveScan(string(result.Verdict))

	if s.cache != nil {
		s.cache.Set(ctx, address, &result)
	}

	s.log.Infow("Token scanned",
		"address", address,
		"verdict", result.Verdict,
		"score", result.DegenScore,
		"confidence", result.Confidence,
		"missing", len(result.MissingData),
		"duration_ms", time.Since(start).Milliseconds())

	return &result, false, nil
}
