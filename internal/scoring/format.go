package scoring

import (
	"fmt"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var holderPrinter = message.NewPrinter(language.English)

// FormatUSD renders a dollar amount with a B/M/K suffix and two decimals.
func FormatUSD(num float64) string {
	if num >= 1_000_000_000 {
		return fmt.Sprintf("$%.2fB", num/1_000_000_000)
	} else if num >= 1_000_000 {
		return fmt.Sprintf("$%.2fM", num/1_000_000)
	} else if num >= 1_000 {
		return fmt.Sprintf("$%.2fK", num/1_000)
	}
	return fmt.Sprintf("$%.2f", num)
}

// FormatPercentage renders one decimal followed by a percent sign.
func FormatPercentage(num float64) string {
	return fmt.Sprintf("%.1f%%", num)
}

// FormatAge renders hours below a day, days otherwise.
func FormatAge(ageHours float64) string {
	if ageHours < 24 {
		return fmt.Sprintf("%.1f hours", ageHours)
	}
	return fmt.Sprintf("%.1f days", ageHours/24)
}

// FormatHolders groups thousands, 2500000 becomes "2,500,000".
func FormatHolders(count int) string {
	return holderPrinter.Sprintf("%d", count)
}

func FormatBuysVsSells(net int) string {
	if net >= 0 {
		return fmt.Sprintf("+%d net buys", net)
	}
	return fmt.Sprintf("%d net sells", net)
}

func formatKeyMetrics(in inputs) models.KeyMetrics {
	return models.KeyMetrics{
		Age:             FormatAge(in.ageHours),
		Liquidity:       FormatUSD(in.liquidity),
		MarketCap:       FormatUSD(in.marketCap),
		Holders:         FormatHolders(in.holders),
		Top10Percentage: FormatPercentage(in.top10),
		DevPercentage:   FormatPercentage(in.devPct),
		Volume1h:        FormatUSD(in.volume1h),
		BuysVsSells:     FormatBuysVsSells(in.netBuys),
		PriceChange:     FormatPercentage(in.priceChange),
	}
}

func buildWatchList(in inputs) []string {
	watch := []string{}
	if in.liquidity < 50_000 {
		watch = append(watch, "Monitor liquidity changes")
	}
	if in.top10 > 60 {
		watch = append(watch, "Watch for large holder sells")
	}
	if in.devPct > 15 {
		watch = append(watch, "Monitor dev wallet activity")
	}
	if in.ageHours < 48 {
		watch = append(watch, "Token is very new - high risk period")
	}
	if in.volumeRatio > stopLossVolumeRatio {
		watch = append(watch, "High volatility - set stop losses")
	}
	return watch
}
