package provider

import (
	"context"
	"sync"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"go.uber.org/zap"
)

// LiveProvider queries every source concurrently and merges their partial metrics.
// The market source is required; enrichers only fill gaps and may fail.
type LiveProvider struct {
	market    Source
	enrichers []Source
	log       *zap.SugaredLogger
}

// NewLiveProvider merges in enricher order, market last, so earlier sources win on overlapping fields.
func NewLiveProvider(market Source, log *zap.SugaredLogger, enrichers ...Source) *LiveProvider {
	return &LiveProvider{
		market:    market,
		enrichers: enrichers,
		log:       log,
	}
}

type sourceResult struct {
	metrics *models.TokenMetrics
	err     error
}

func (p *LiveProvider) FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error) {
	if err := models.ValidateMintAddress(address); err != nil {
		return nil, err
	}

	sources := append([]Source{p.market}, p.enrichers...)
	results := make([]sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			metrics, err := source.FetchMetrics(ctx, address)
			results[i] = sourceResult{metrics: metrics, err: err}
		}(i, source)
	}
	wg.Wait()

	if err := results[0].err; err != nil {
		return nil, err
	}

	merged := &models.TokenMetrics{Address: address}
	for i, result := range results[1:] {
		if result.err != nil {
			p.log.Warnw("Enrichment source failed, continuing with partial data",
				"source", p.enrichers[i].Name(),
				"address", address,
				"error", result.err)
			continue
		}
		merged.Merge(result.metrics)
	}
	merged.Merge(results[0].metrics)

	return merged, nil
}

// BreakerStates reports the circuit breaker state of every guarded source.
func (p *LiveProvider) BreakerStates() map[string]string {
	states := make(map[string]string)
	for _, source := range append([]Source{p.market}, p.enrichers...) {
		if guarded, ok := source.(interface{ State() string }); ok {
			states[source.Name()] = guarded.State()
		}
	}
	return states
}
