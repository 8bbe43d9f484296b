package models

import "time"

// TokenMetrics represents everything known about a Solana token at scan time.
// Only Address is required; a nil field means the provider had no data for it.
type TokenMetrics struct {
	Address  string  `json:"address"`
	Name     *string `json:"name,omitempty"`
	Symbol   *string `json:"symbol,omitempty"`
	Decimals *int    `json:"decimals,omitempty"`

	// Age
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	AgeHours  *float64   `json:"ageHours,omitempty"`

	// Market metrics
	PriceUsd              *float64 `json:"priceUsd,omitempty"`
	PriceChange1h         *float64 `json:"priceChange1h,omitempty"`
	PriceChange24h        *float64 `json:"priceChange24h,omitempty"`
	MarketCap             *float64 `json:"marketCap,omitempty"`
	FullyDilutedValuation *float64 `json:"fullyDilutedValuation,omitempty"`

	// Liquidity
	LiquidityUsd *float64 `json:"liquidityUsd,omitempty"`

	// Holder distribution
	HolderCount           *int     `json:"holderCount,omitempty"`
	Top10HolderPercentage *float64 `json:"top10HolderPercentage,omitempty"`
	DevHolderPercentage   *float64 `json:"devHolderPercentage,omitempty"`

	// Volume
	Volume1h  *float64 `json:"volume1h,omitempty"`
	Volume24h *float64 `json:"volume24h,omitempty"`

	// Trading activity
	BuyCount1h     *int `json:"buyCount1h,omitempty"`
	SellCount1h    *int `json:"sellCount1h,omitempty"`
	NetBuysVsSells *int `json:"netBuysVsSells,omitempty"`

	// Socials, not scored
	Website  *string `json:"website,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	Telegram *string `json:"telegram,omitempty"`

	// Authority flags
	IsRenounced              *bool `json:"isRenounced,omitempty"`
	IsFreezeAuthorityRevoked *bool `json:"isFreezeAuthorityRevoked,omitempty"`
	IsMintAuthorityRevoked   *bool `json:"isMintAuthorityRevoked,omitempty"`
}

// Merge fills every absent field of m from other. Fields already set on m win.
func (m *TokenMetrics) Merge(other *TokenMetrics) {
	if other == nil {
		return
	}
	if m.Address == "" {
		m.Address = other.Address
	}
	fill(&m.Name, other.Name)
	fill(&m.Symbol, other.Symbol)
	fill(&m.Decimals, other.Decimals)
	fill(&m.CreatedAt, other.CreatedAt)
	fill(&m.AgeHours, other.AgeHours)
	fill(&m.PriceUsd, other.PriceUsd)
	fill(&m.PriceChange1h, other.PriceChange1h)
	fill(&m.PriceChange24h, other.PriceChange24h)
	fill(&m.MarketCap, other.MarketCap)
	fill(&m.FullyDilutedValuation, other.FullyDilutedValuation)
	fill(&m.LiquidityUsd, other.LiquidityUsd)
	fill(&m.HolderCount, other.HolderCount)
	fill(&m.Top10HolderPercentage, other.Top10HolderPercentage)
	fill(&m.DevHolderPercentage, other.DevHolderPercentage)
	fill(&m.Volume1h, other.Volume1h)
	fill(&m.Volume24h, other.Volume24h)
	fill(&m.BuyCount1h, other.BuyCount1h)
	fill(&m.SellCount1h, other.SellCount1h)
	fill(&m.NetBuysVsSells, other.NetBuysVsSells)
	fill(&m.Website, other.Website)
	fill(&m.Twitter, other.Twitter)
	fill(&m.Telegram, other.Telegram)
	fill(&m.IsRenounced, other.IsRenounced)
	fill(&m.IsFreezeAuthorityRevoked, other.IsFreezeAuthorityRevoked)
	fill(&m.IsMintAuthorityRevoked, other.IsMintAuthorityRevoked)
}

func fill[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		*dst = src
	}
}

// Ptr returns a pointer to v. Used to build optional metric fields.
func Ptr[T any](v T) *T {
	return &v
}
