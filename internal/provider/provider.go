// Package provider supplies TokenMetrics for a mint address, either from fixtures or from live upstreams.
package provider

import (
	"context"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
)

var (
	ErrInvalidAddress = models.ErrInvalidMintAddress
	ErrTokenNotFound  = models.ErrTokenNotFound
)

// Provider fetches whatever metrics are available for a token. Fields it cannot
// determine stay nil; the scorer reports them as missing.
type Provider interface {
	FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error)
}

// Source is a single upstream that contributes part of the metrics.
type Source interface {
	Provider
	Name() string
}
