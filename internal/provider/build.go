package provider

import (
	"fmt"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/config"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/contract"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/fraud"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/market"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/metrics"
	"go.uber.org/zap"
)

// FromConfig builds the provider selected by cfg.Provider.
func FromConfig(cfg *config.Config, m *metrics.Metrics, log *zap.SugaredLogger) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		return NewMockProvider(cfg.MockLatency, 0), nil

	case config.ProviderLive:
		guard := DefaultGuardConfig()
		guard.MaxRetries = uint64(max(cfg.UpstreamMaxRetries, 0))
		guard.BreakerTimeout = cfg.BreakerTimeout
		wrap := func(s Source) Source {
			return NewGuardedSource(s, guard, m, log)
		}

		dex := market.NewDexScreenerClient(cfg.DexScreenerURL, cfg.UpstreamTimeout, cfg.UpstreamRPS)
		chain := contract.NewSolanaClient(cfg.SolanaRPCURL, cfg.UpstreamTimeout, cfg.UpstreamRPS)
		security := fraud.NewGoPlusClient(cfg.GoPlusURL, cfg.UpstreamTimeout, cfg.UpstreamRPS)

		log.Infow("Using live metrics provider",
			"dexscreener", cfg.DexScreenerURL,
			"goplus", cfg.GoPlusURL,
			"solana_rpc", cfg.SolanaRPCURL,
			"upstream_timeout", cfg.UpstreamTimeout.String(),
			"max_retries", guard.MaxRetries)

		return NewLiveProvider(wrap(dex), log, wrap(chain), wrap(security)), nil

	default:
		return nil, fmt.Errorf("unknown provider %q, want %q or %q", cfg.Provider, config.ProviderMock, config.ProviderLive)
	}
}
