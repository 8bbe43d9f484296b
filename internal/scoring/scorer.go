// Package scoring implements the rule based degen scanner: it maps token metrics to a
// verdict, a 0-10 degen score, a confidence level and categorized flags.
package scoring

import (
	"fmt"
	"math"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
)

// Missing data tokens reported for absent critical inputs.
const (
	MissingAge           = "age"
	MissingLiquidity     = "liquidity"
	MissingHolders       = "holders"
	MissingTop10Holdings = "top10_holdings"
	MissingDevHoldings   = "dev_holdings"
)

const (
	baselineScore     = 5
	defaultConfidence = 75
	unclearConfidence = 50
	minConfidence     = 30
	missingPenalty    = 15
	maxScore          = 10

	unclearMissingCount = 3
	scamRedFlagCount    = 3
	basedGreenFlagCount = 3

	volatilityVolumeRatio = 0.1
	stopLossVolumeRatio   = 0.05
)

// inputs are the zero-defaulted values every rule and formatter reads.
type inputs struct {
	ageHours    float64
	liquidity   float64
	marketCap   float64
	holders     int
	top10       float64
	devPct      float64
	volume1h    float64
	netBuys     int
	priceChange float64
	volumeRatio float64
	renounced   bool
	freezeGone  bool
}

func resolve(m *models.TokenMetrics) inputs {
	in := inputs{
		ageHours:    valueOr(m.AgeHours),
		liquidity:   valueOr(m.LiquidityUsd),
		marketCap:   valueOr(m.MarketCap),
		holders:     valueOr(m.HolderCount),
		top10:       valueOr(m.Top10HolderPercentage),
		devPct:      valueOr(m.DevHolderPercentage),
		volume1h:    valueOr(m.Volume1h),
		netBuys:     valueOr(m.NetBuysVsSells),
		priceChange: valueOr(m.PriceChange1h),
		renounced:   valueOr(m.IsRenounced),
		freezeGone:  valueOr(m.IsFreezeAuthorityRevoked),
	}

	// market cap floors at 1 when absent or zero
	denominator := in.marketCap
	if denominator == 0 {
		denominator = 1
	}
	in.volumeRatio = in.volume1h / denominator
	return in
}

func valueOr[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// evaluation accumulates score and flags while rules run.
type evaluation struct {
	score  int
	red    []string
	yellow []string
	green  []string
}

// Analyze scores a token. It is pure: no I/O, no shared state, and the same metrics
// always produce the same result.
func Analyze(metrics models.TokenMetrics) models.AnalysisResult {
	in := resolve(&metrics)
	missing := detectMissing(in)

	ev := &evaluation{
		score:  baselineScore,
		red:    []string{},
		yellow: []string{},
		green:  []string{},
	}
	ev.ageRule(in.ageHours)
	ev.liquidityRule(in.liquidity)
	ev.top10Rule(in.top10)
	ev.devRule(in.devPct)
	ev.renounceRule(in.renounced)
	ev.freezeRule(in.freezeGone)
	ev.volumeRule(in.volumeRatio)
	ev.netBuysRule(in.netBuys)
	ev.priceRule(in.priceChange)

	verdict, confidence := ev.verdict(len(missing))

	// clamp after verdict selection, thresholds above see the raw score
	score := min(maxScore, max(0, ev.score))

	// too little data pins confidence at 50, otherwise each gap costs 15 points
	if len(missing) > 0 && len(missing) < unclearMissingCount {
		confidence = max(minConfidence, 100-len(missing)*missingPenalty)
	}

	return models.AnalysisResult{
		Verdict:     verdict,
		DegenScore:  score,
		Confidence:  confidence,
		RedFlags:    ev.red,
		YellowFlags: ev.yellow,
		GreenFlags:  ev.green,
		KeyMetrics:  formatKeyMetrics(in),
		WatchList:   buildWatchList(in),
		MissingData: missing,
		RawMetrics:  metrics,
	}
}

// detectMissing treats zero the same as absent.
func detectMissing(in inputs) []string {
	missing := []string{}
	if in.ageHours == 0 {
		missing = append(missing, MissingAge)
	}
	if in.liquidity == 0 {
		missing = append(missing, MissingLiquidity)
	}
	if in.holders == 0 {
		missing = append(missing, MissingHolders)
	}
	if in.top10 == 0 {
		missing = append(missing, MissingTop10Holdings)
	}
	if in.devPct == 0 {
		missing = append(missing, MissingDevHoldings)
	}
	return missing
}

func (ev *evaluation) ageRule(ageHours float64) {
	if ageHours < 1 {
		ev.red = append(ev.red, "Token is less than 1 hour old - extreme rug risk")
		ev.score += 3
	} else if ageHours < 24 {
		ev.yellow = append(ev.yellow, "Token is less than 24 hours old - high risk")
		ev.score += 2
	} else if ageHours > 168 { // 7 days
		ev.green = append(ev.green, "Token is over 7 days old - established")
		ev.score--
	}
}

func (ev *evaluation) liquidityRule(liquidity float64) {
	if liquidity < 10_000 {
		ev.red = append(ev.red, "Liquidity under $10k - high rug pull risk")
		ev.score += 3
	} else if liquidity < 100_000 {
		ev.yellow = append(ev.yellow, "Liquidity $10k-$100k - thin liquidity")
		ev.score++
	} else if liquidity > 1_000_000 {
		ev.green = append(ev.green, "Liquidity over $1M - healthy pool")
		ev.score--
	}
}

func (ev *evaluation) top10Rule(top10 float64) {
	if top10 > 80 {
		ev.red = append(ev.red, fmt.Sprintf("Top 10 holders control %.1f%% - extreme concentration risk", top10))
		ev.score += 3
	} else if top10 > 50 {
		ev.yellow = append(ev.yellow, fmt.Sprintf("Top 10 holders control %.1f%% - high concentration", top10))
		ev.score += 2
	} else if top10 < 20 {
		ev.green = append(ev.green, fmt.Sprintf("Top 10 holders control %.1f%% - good distribution", top10))
		ev.score--
	}
}

func (ev *evaluation) devRule(devPct float64) {
	if devPct > 30 {
		ev.red = append(ev.red, fmt.Sprintf("Dev holds %.1f%% - high insider control", devPct))
		ev.score += 3
	} else if devPct > 10 {
		ev.yellow = append(ev.yellow, fmt.Sprintf("Dev holds %.1f%% - concerning insider holdings", devPct))
		ev.score++
	} else if devPct < 5 {
		ev.green = append(ev.green, fmt.Sprintf("Dev holds %.1f%% - reasonable insider holdings", devPct))
		ev.score--
	}
}

// renounceRule scores an unknown renounce status as not renounced.
func (ev *evaluation) renounceRule(renounced bool) {
	if renounced {
		ev.green = append(ev.green, "Mint authority renounced - contract safety")
		ev.score -= 2
	} else {
		ev.yellow = append(ev.yellow, "Mint authority not renounced - dev can mint more tokens")
		ev.score++
	}
}

func (ev *evaluation) freezeRule(revoked bool) {
	if revoked {
		ev.green = append(ev.green, "Freeze authority revoked - cannot freeze accounts")
		ev.score--
	}
}

func (ev *evaluation) volumeRule(ratio float64) {
	if ratio > volatilityVolumeRatio {
		ev.yellow = append(ev.yellow, "High 1h volume relative to market cap - extreme volatility")
		ev.score++
	}
}

func (ev *evaluation) netBuysRule(netBuys int) {
	if netBuys > 0 {
		ev.green = append(ev.green, fmt.Sprintf("Net positive buys in last hour (+%d) - buying pressure", netBuys))
		ev.score--
	} else if netBuys < -50 {
		ev.yellow = append(ev.yellow, fmt.Sprintf("Net negative buys in last hour (%d) - selling pressure", netBuys))
		ev.score++
	}
}

func (ev *evaluation) priceRule(change float64) {
	if math.Abs(change) > 20 {
		ev.yellow = append(ev.yellow, fmt.Sprintf("1h price change %.1f%% - extreme volatility", change))
		ev.score++
	}
}

// verdict walks the priority chain in order. A score of exactly 4 hits APEX_RISK
// before SAFE is considered.
func (ev *evaluation) verdict(missingCount int) (models.Verdict, int) {
	switch {
	case missingCount >= unclearMissingCount:
		return models.VerdictUnclear, unclearConfidence
	case len(ev.red) >= scamRedFlagCount:
		ev.score = min(maxScore, ev.score)
		return models.VerdictScam, defaultConfidence
	case ev.score >= 8:
		return models.VerdictCooked, defaultConfidence
	case ev.score >= 6:
		return models.VerdictDegen, defaultConfidence
	case ev.score >= 4:
		return models.VerdictApexRisk, defaultConfidence
	case ev.score <= 2 && len(ev.green) >= basedGreenFlagCount:
		return models.VerdictBased, defaultConfidence
	case ev.score <= 4:
		return models.VerdictSafe, defaultConfidence
	default:
		return models.VerdictUnclear, defaultConfidence
	}
}
