// Package fraud implements a client for the GoPlus Solana token security API.
package fraud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"go.uber.org/ratelimit"
)

const (
	statusRevoked = "0"
	top10Holders  = 10
)

type GoPlusClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    ratelimit.Limiter
}

// GoPlusAPIResponse represents the full API response structure
type GoPlusAPIResponse struct {
	Code    int                       `json:"code"`
	Message string                    `json:"message"`
	Result  map[string]SecurityReport `json:"result"`
}

type Authority struct {
	Status    string `json:"status"`
	Authority []struct {
		Address string `json:"address"`
	} `json:"authority"`
}

// SecurityReport is the per-token entry of a GoPlus Solana response. Numbers arrive as strings.
type SecurityReport struct {
	HolderCount string `json:"holder_count"`
	TotalSupply string `json:"total_supply"`
	Holders     []struct {
		Account  string `json:"account"`
		Balance  string `json:"balance"`
		Percent  string `json:"percent"`
		IsLocked int    `json:"is_locked"`
	} `json:"holders"`
	Creators []struct {
		Address          string `json:"address"`
		MaliciousAddress int    `json:"malicious_address"`
	} `json:"creators"`
	Mintable  Authority `json:"mintable"`
	Freezable Authority `json:"freezable"`
	Metadata  struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
}

func NewGoPlusClient(baseURL string, timeout time.Duration, rps int) *GoPlusClient {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &GoPlusClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

func (g *GoPlusClient) Name() string {
	return "goplus"
}

// FetchMetrics maps the security report onto the holder and authority fields of TokenMetrics.
func (g *GoPlusClient) FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error) {
	report, err := g.CheckToken(ctx, address)
	if err != nil {
		return nil, err
	}
	return report.Metrics(address), nil
}

// CheckToken performs security analysis on a token address
func (g *GoPlusClient) CheckToken(ctx context.Context, address string) (*SecurityReport, error) {
	endpoint := fmt.Sprintf("%s/api/v1/solana/token_security?contract_addresses=%s", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	g.limiter.Take()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("goplus request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("goplus: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goplus read body: %w", err)
	}

	var apiResp GoPlusAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("goplus decode: %w", err)
	}

	// Check if we got a valid response
	if apiResp.Code != 1 {
		return nil, fmt.Errorf("goplus API error: %s", apiResp.Message)
	}

	// Get the token data (result is a map with token address as key)
	report, exists := apiResp.Result[address]
	if !exists {
		return nil, fmt.Errorf("goplus %s: %w", address, models.ErrTokenNotFound)
	}

	return &report, nil
}

// Metrics converts the report. Percentages are returned in 0-100 units.
func (r *SecurityReport) Metrics(address string) *models.TokenMetrics {
	metrics := &models.TokenMetrics{Address: address}

	if r.Metadata.Name != "" {
		metrics.Name = models.Ptr(r.Metadata.Name)
	}
	if r.Metadata.Symbol != "" {
		metrics.Symbol = models.Ptr(r.Metadata.Symbol)
	}

	if holderCount, err := strconv.Atoi(r.HolderCount); err == nil {
		metrics.HolderCount = models.Ptr(holderCount)
	}

	if len(r.Holders) > 0 {
		creators := make(map[string]struct{}, len(r.Creators))
		for _, creator := range r.Creators {
			creators[creator.Address] = struct{}{}
		}

		var top10, dev float64
		for i, holder := range r.Holders {
			percent, _ := strconv.ParseFloat(holder.Percent, 64)
			if i < top10Holders {
				top10 += percent
			}
			if _, ok := creators[holder.Account]; ok {
				dev += percent
			}
		}
		metrics.Top10HolderPercentage = models.Ptr(top10 * 100)
		if len(r.Creators) > 0 {
			metrics.DevHolderPercentage = models.Ptr(dev * 100)
		}
	}

	if r.Mintable.Status != "" {
		revoked := r.Mintable.Status == statusRevoked
		metrics.IsMintAuthorityRevoked = models.Ptr(revoked)
		metrics.IsRenounced = models.Ptr(revoked)
	}
	if r.Freezable.Status != "" {
		metrics.IsFreezeAuthorityRevoked = models.Ptr(r.Freezable.Status == statusRevoked)
	}

	return metrics
}
