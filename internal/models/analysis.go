package models

// Verdict is the categorical risk label of a scan.
type Verdict string

const (
	VerdictCooked   Verdict = "COOKED"
	VerdictDegen    Verdict = "DEGEN"
	VerdictSafe     Verdict = "SAFE"
	VerdictScam     Verdict = "SCAM"
	VerdictUnclear  Verdict = "UNCLEAR"
	VerdictApexRisk Verdict = "APEX_RISK"
	VerdictBased    Verdict = "BASED"
)

// KeyMetrics holds display strings for the headline numbers of a token.
type KeyMetrics struct {
	Age             string `json:"age"`
	Liquidity       string `json:"liquidity"`
	MarketCap       string `json:"marketCap"`
	Holders         string `json:"holders"`
	Top10Percentage string `json:"top10Percentage"`
	DevPercentage   string `json:"devPercentage"`
	Volume1h        string `json:"volume1h"`
	BuysVsSells     string `json:"buysVsSells"`
	PriceChange     string `json:"priceChange"`
}

// AnalysisResult is the output of the scoring engine for one token.
type AnalysisResult struct {
	Verdict    Verdict `json:"verdict"`
	DegenScore int     `json:"degenScore"` // 0-10
	Confidence int     `json:"confidence"` // 0-100

	RedFlags    []string `json:"redFlags"`
	YellowFlags []string `json:"yellowFlags"`
	GreenFlags  []string `json:"greenFlags"`

	KeyMetrics  KeyMetrics   `json:"keyMetrics"`
	WatchList   []string     `json:"watchList"`
	MissingData []string     `json:"missingData"`
	RawMetrics  TokenMetrics `json:"rawMetrics"`
}

// ScanRequest is the body accepted by the scan endpoint.
type ScanRequest struct {
	MintAddress string `json:"mintAddress"`
}

// ScanResponse is the envelope returned by the scan endpoint.
type ScanResponse struct {
	Success bool            `json:"success"`
	Data    *AnalysisResult `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Cached  *bool           `json:"cached,omitempty"`
}
