// Package market implements a client for fetching price, liquidity, volume and trading activity from DexScreener API.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"go.uber.org/ratelimit"
)

const solanaChainID = "solana"

type DexScreenerClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	now        func() time.Time
}

type DexScreenerResponse struct {
	Pairs []Pair `json:"pairs"`
}

// Pair is one DexScreener trading pair. Only the fields the scanner reads are mapped.
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd string `json:"priceUsd"`
	Txns     struct {
		H1 struct {
			Buys  int `json:"buys"`
			Sells int `json:"sells"`
		} `json:"h1"`
	} `json:"txns"`
	Volume struct {
		H1  float64 `json:"h1"`
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H1  *float64 `json:"h1"`
		H24 *float64 `json:"h24"`
	} `json:"priceChange"`
	Liquidity *struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Fdv           float64 `json:"fdv"`
	MarketCap     float64 `json:"marketCap"`
	PairCreatedAt int64   `json:"pairCreatedAt"`
	Info          *struct {
		Websites []struct {
			URL string `json:"url"`
		} `json:"websites"`
		Socials []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"socials"`
	} `json:"info"`
}

// NewDexScreenerClient paces outgoing calls to rps requests per second; rps <= 0 disables pacing.
func NewDexScreenerClient(baseURL string, timeout time.Duration, rps int) *DexScreenerClient {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &DexScreenerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		now:        time.Now,
	}
}

func (d *DexScreenerClient) Name() string {
	return "dexscreener"
}

// FetchMetrics aggregates every Solana pair where the token is the base asset.
func (d *DexScreenerClient) FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error) {
	pairs, err := d.GetPairs(ctx, address)
	if err != nil {
		return nil, err
	}

	var matching []Pair
	for _, pair := range pairs {
		if pair.ChainID == solanaChainID && pair.BaseToken.Address == address {
			matching = append(matching, pair)
		}
	}
	if len(matching) == 0 {
		return nil, fmt.Errorf("dexscreener %s: %w", address, models.ErrTokenNotFound)
	}

	return d.aggregate(address, matching), nil
}

// GetPairs fetches all pairs DexScreener lists for a token address
func (d *DexScreenerClient) GetPairs(ctx context.Context, address string) ([]Pair, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", d.baseURL, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	d.limiter.Take()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dexscreener request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("dexscreener %s: %w", address, models.ErrTokenNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dexscreener: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dexscreener read body: %w", err)
	}

	var result DexScreenerResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("dexscreener decode: %w", err)
	}

	return result.Pairs, nil
}

func (d *DexScreenerClient) aggregate(address string, pairs []Pair) *models.TokenMetrics {
	metrics := &models.TokenMetrics{Address: address}

	// Aggregate liquidity, volume and flow across all pairs
	var liquidity, volume1h, volume24h float64
	var buys, sells int
	hasLiquidity := false
	primary := pairs[0]
	var earliest int64

	for _, pair := range pairs {
		if pair.Liquidity != nil {
			hasLiquidity = true
			liquidity += pair.Liquidity.USD
			if primary.Liquidity == nil || pair.Liquidity.USD > primary.Liquidity.USD {
				primary = pair
			}
		}
		volume1h += pair.Volume.H1
		volume24h += pair.Volume.H24
		buys += pair.Txns.H1.Buys
		sells += pair.Txns.H1.Sells

		if pair.PairCreatedAt > 0 && (earliest == 0 || pair.PairCreatedAt < earliest) {
			earliest = pair.PairCreatedAt
		}
	}

	if hasLiquidity {
		metrics.LiquidityUsd = models.Ptr(liquidity)
	}
	metrics.Volume1h = models.Ptr(volume1h)
	metrics.Volume24h = models.Ptr(volume24h)
	metrics.BuyCount1h = models.Ptr(buys)
	metrics.SellCount1h = models.Ptr(sells)
	metrics.NetBuysVsSells = models.Ptr(buys - sells)

	// Price and valuation come from the deepest pool
	if primary.BaseToken.Name != "" {
		metrics.Name = models.Ptr(primary.BaseToken.Name)
	}
	if primary.BaseToken.Symbol != "" {
		metrics.Symbol = models.Ptr(primary.BaseToken.Symbol)
	}
	if price, err := strconv.ParseFloat(primary.PriceUsd, 64); err == nil {
		metrics.PriceUsd = models.Ptr(price)
	}
	metrics.PriceChange1h = primary.PriceChange.H1
	metrics.PriceChange24h = primary.PriceChange.H24
	if primary.MarketCap > 0 {
		metrics.MarketCap = models.Ptr(primary.MarketCap)
	}
	if primary.Fdv > 0 {
		metrics.FullyDilutedValuation = models.Ptr(primary.Fdv)
	}

	if earliest > 0 {
		createdAt := time.UnixMilli(earliest).UTC()
		metrics.CreatedAt = &createdAt
		metrics.AgeHours = models.Ptr(d.now().Sub(createdAt).Hours())
	}

	if primary.Info != nil {
		if len(primary.Info.Websites) > 0 {
			metrics.Website = models.Ptr(primary.Info.Websites[0].URL)
		}
		for _, social := range primary.Info.Socials {
			switch social.Type {
			case "twitter":
				metrics.Twitter = models.Ptr(social.URL)
			case "telegram":
				metrics.Telegram = models.Ptr(social.URL)
			}
		}
	}

	return metrics
}
