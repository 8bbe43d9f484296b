// Package contract reads SPL mint state straight from a Solana RPC node.
package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/ratelimit"
)

// mintAccountSize is the length of an SPL Token mint account.
const mintAccountSize = 82

const largestAccountsCounted = 10

type SolanaClient struct {
	rpcClient *rpc.Client
	timeout   time.Duration
	limiter   ratelimit.Limiter
}

// MintInfo is the decoded mint account.
type MintInfo struct {
	Decimals             uint8
	Supply               uint64
	MintAuthorityRevoked bool
	FreezeRevoked        bool
}

// NewSolanaClient bounds each FetchMetrics call by timeout when it is positive.
func NewSolanaClient(endpoint string, timeout time.Duration, rps int) *SolanaClient {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &SolanaClient{
		rpcClient: rpc.New(endpoint),
		timeout:   timeout,
		limiter:   limiter,
	}
}

func (c *SolanaClient) Name() string {
	return "solana-rpc"
}

func (c *SolanaClient) Close() error {
	return c.rpcClient.Close()
}

// FetchMetrics fills decimals, authority flags and top-10 concentration from chain state.
func (c *SolanaClient) FetchMetrics(ctx context.Context, address string) (*models.TokenMetrics, error) {
	mint, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("solana rpc %s: %w", address, models.ErrInvalidMintAddress)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	info, err := c.GetMintInfo(ctx, mint)
	if err != nil {
		return nil, err
	}

	metrics := &models.TokenMetrics{
		Address:                  address,
		Decimals:                 models.Ptr(int(info.Decimals)),
		IsRenounced:              models.Ptr(info.MintAuthorityRevoked),
		IsMintAuthorityRevoked:   models.Ptr(info.MintAuthorityRevoked),
		IsFreezeAuthorityRevoked: models.Ptr(info.FreezeRevoked),
	}

	top10, err := c.Top10Percentage(ctx, mint)
	if err != nil {
		// authority data is still useful without the holder breakdown
		return metrics, nil
	}
	metrics.Top10HolderPercentage = models.Ptr(top10)

	return metrics, nil
}

// GetMintInfo loads and decodes the mint account.
func (c *SolanaClient) GetMintInfo(ctx context.Context, mint solana.PublicKey) (*MintInfo, error) {
	c.limiter.Take()
	acc, err := c.rpcClient.GetAccountInfo(ctx, mint)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("mint account %s: %w", mint, models.ErrTokenNotFound)
		}
		return nil, fmt.Errorf("get mint account: %w", err)
	}

	data := acc.Value.Data.GetBinary()
	if len(data) < mintAccountSize {
		return nil, fmt.Errorf("account %s is not a mint: %w", mint, models.ErrTokenNotFound)
	}

	var decoded token.Mint
	if err := decoded.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, fmt.Errorf("decode mint account: %w", err)
	}

	return &MintInfo{
		Decimals:             decoded.Decimals,
		Supply:               decoded.Supply,
		MintAuthorityRevoked: decoded.MintAuthority == nil,
		FreezeRevoked:        decoded.FreezeAuthority == nil,
	}, nil
}

// Top10Percentage returns the share of supply held by the ten largest token accounts, 0-100.
func (c *SolanaClient) Top10Percentage(ctx context.Context, mint solana.PublicKey) (float64, error) {
	c.limiter.Take()
	supply, err := c.rpcClient.GetTokenSupply(ctx, mint, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("get token supply: %w", err)
	}
	total, err := decimal.NewFromString(supply.Value.Amount)
	if err != nil {
		return 0, fmt.Errorf("parse token supply: %w", err)
	}
	if total.IsZero() {
		return 0, errors.New("token supply is zero")
	}

	c.limiter.Take()
	largest, err := c.rpcClient.GetTokenLargestAccounts(ctx, mint, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("get largest accounts: %w", err)
	}

	held := decimal.Zero
	for i, account := range largest.Value {
		if i == largestAccountsCounted {
			break
		}
		amount, err := decimal.NewFromString(account.Amount)
		if err != nil {
			return 0, fmt.Errorf("parse account amount: %w", err)
		}
		held = held.Add(amount)
	}

	percent, _ := held.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return percent, nil
}
