package provider

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
)

const (
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	BONKMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	SAMOMint = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

// fixtures build a fresh value on every call so callers never share pointers.
var fixtures = map[string]func() *models.TokenMetrics{
	USDCMint: func() *models.TokenMetrics {
		return &models.TokenMetrics{
			Address:                  USDCMint,
			Name:                     models.Ptr("USD Coin"),
			Symbol:                   models.Ptr("USDC"),
			Decimals:                 models.Ptr(6),
			CreatedAt:                models.Ptr(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
			AgeHours:                 models.Ptr(32000.0),
			PriceUsd:                 models.Ptr(1.0),
			PriceChange1h:            models.Ptr(0.01),
			PriceChange24h:           models.Ptr(0.02),
			MarketCap:                models.Ptr(35_000_000_000.0),
			FullyDilutedValuation:    models.Ptr(35_000_000_000.0),
			LiquidityUsd:             models.Ptr(5_000_000_000.0),
			HolderCount:              models.Ptr(2_500_000),
			Top10HolderPercentage:    models.Ptr(15.2),
			DevHolderPercentage:      models.Ptr(0.5),
			Volume1h:                 models.Ptr(120_000_000.0),
			Volume24h:                models.Ptr(2_800_000_000.0),
			BuyCount1h:               models.Ptr(45000),
			SellCount1h:              models.Ptr(42000),
			NetBuysVsSells:           models.Ptr(3000),
			Website:                  models.Ptr("https://www.centre.io/usdc"),
			Twitter:                  models.Ptr("https://twitter.com/centre_io"),
			IsRenounced:              models.Ptr(true),
			IsFreezeAuthorityRevoked: models.Ptr(true),
			IsMintAuthorityRevoked:   models.Ptr(true),
		}
	},
	BONKMint: func() *models.TokenMetrics {
		return &models.TokenMetrics{
			Address:                  BONKMint,
			Name:                     models.Ptr("Bonk"),
			Symbol:                   models.Ptr("BONK"),
			Decimals:                 models.Ptr(5),
			CreatedAt:                models.Ptr(time.Date(2022, 12, 25, 0, 0, 0, 0, time.UTC)),
			AgeHours:                 models.Ptr(9000.0),
			PriceUsd:                 models.Ptr(0.000023),
			PriceChange1h:            models.Ptr(5.2),
			PriceChange24h:           models.Ptr(-12.4),
			MarketCap:                models.Ptr(1_500_000_000.0),
			FullyDilutedValuation:    models.Ptr(2_300_000_000.0),
			LiquidityUsd:             models.Ptr(85_000_000.0),
			HolderCount:              models.Ptr(450_000),
			Top10HolderPercentage:    models.Ptr(42.8),
			DevHolderPercentage:      models.Ptr(18.5),
			Volume1h:                 models.Ptr(25_000_000.0),
			Volume24h:                models.Ptr(180_000_000.0),
			BuyCount1h:               models.Ptr(12000),
			SellCount1h:              models.Ptr(15000),
			NetBuysVsSells:           models.Ptr(-3000),
			Website:                  models.Ptr("https://www.bonkcoin.com"),
			Twitter:                  models.Ptr("https://twitter.com/bonk_inu"),
			Telegram:                 models.Ptr("https://t.me/bonk_inu"),
			IsRenounced:              models.Ptr(true),
			IsFreezeAuthorityRevoked: models.Ptr(true),
			IsMintAuthorityRevoked:   models.Ptr(false),
		}
	},
	SAMOMint: func() *models.TokenMetrics {
		return &models.TokenMetrics{
			Address:                  SAMOMint,
			Name:                     models.Ptr("Samoyedcoin"),
			Symbol:                   models.Ptr("SAMO"),
			Decimals:                 models.Ptr(9),
			CreatedAt:                models.Ptr(time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)),
			AgeHours:                 models.Ptr(31000.0),
			PriceUsd:                 models.Ptr(0.012),
			PriceChange1h:            models.Ptr(-2.3),
			PriceChange24h:           models.Ptr(8.7),
			MarketCap:                models.Ptr(48_000_000.0),
			FullyDilutedValuation:    models.Ptr(120_000_000.0),
			LiquidityUsd:             models.Ptr(3_200_000.0),
			HolderCount:              models.Ptr(85000),
			Top10HolderPercentage:    models.Ptr(68.4),
			DevHolderPercentage:      models.Ptr(25.3),
			Volume1h:                 models.Ptr(450_000.0),
			Volume24h:                models.Ptr(5_200_000.0),
			BuyCount1h:               models.Ptr(450),
			SellCount1h:              models.Ptr(620),
			NetBuysVsSells:           models.Ptr(-170),
			Website:                  models.Ptr("https://samoyedcoin.com"),
			Twitter:                  models.Ptr("https://twitter.com/samoyedcoin"),
			IsRenounced:              models.Ptr(false),
			IsFreezeAuthorityRevoked: models.Ptr(false),
			IsMintAuthorityRevoked:   models.Ptr(false),
		}
	},
}

// MockProvider serves fixed data for a few well known tokens and plausible random data for everything else.
type MockProvider struct {
	latency time.Duration
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider simulates upstream latency on every call. seed 0 picks a time based seed.
func NewMockProvider(latency time.Duration, seed int64) *MockProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockProvider{
		latency: latency,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error) {
	if len(address) < models.MinMintAddressLen {
		return nil, ErrInvalidAddress
	}

	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if fixture, ok := fixtures[address]; ok {
		return fixture(), nil
	}
	return p.random(address), nil
}

func (p *MockProvider) random(address string) *models.TokenMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.rng

	ageHours := math.Floor(r.Float64()*1000) + 1
	marketCap := r.Float64() * 1_000_000_000
	createdAt := p.now().Add(-time.Duration(ageHours * float64(time.Hour))).UTC()

	return &models.TokenMetrics{
		Address:                  address,
		Name:                     models.Ptr(fmt.Sprintf("Token %s", address[:8])),
		Symbol:                   models.Ptr(fmt.Sprintf("TKN%s", address[:4])),
		Decimals:                 models.Ptr(9),
		CreatedAt:                &createdAt,
		AgeHours:                 models.Ptr(ageHours),
		PriceUsd:                 models.Ptr(r.Float64() * 10),
		PriceChange1h:            models.Ptr((r.Float64() - 0.5) * 20),
		PriceChange24h:           models.Ptr((r.Float64() - 0.5) * 40),
		MarketCap:                models.Ptr(marketCap),
		FullyDilutedValuation:    models.Ptr(marketCap * (r.Float64() + 1)),
		LiquidityUsd:             models.Ptr(marketCap * (r.Float64()*0.1 + 0.01)),
		HolderCount:              models.Ptr(r.Intn(100000) + 100),
		Top10HolderPercentage:    models.Ptr(r.Float64()*80 + 10),
		DevHolderPercentage:      models.Ptr(r.Float64()*30 + 5),
		Volume1h:                 models.Ptr(marketCap * r.Float64() * 0.05),
		Volume24h:                models.Ptr(marketCap * r.Float64() * 0.15),
		BuyCount1h:               models.Ptr(r.Intn(1000)),
		SellCount1h:              models.Ptr(r.Intn(1000)),
		NetBuysVsSells:           models.Ptr(int(math.Floor((r.Float64() - 0.5) * 200))),
		IsRenounced:              models.Ptr(r.Float64() > 0.7),
		IsFreezeAuthorityRevoked: models.Ptr(r.Float64() > 0.6),
		IsMintAuthorityRevoked:   models.Ptr(r.Float64() > 0.8),
	}
}
