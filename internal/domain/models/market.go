package models

import "time"

// Regime labels for the checklist outcome.
const (
	RegimeAltSeason = "Alt Season"
	RegimeBTCSeason = "BTC Season"
)

// ChecklistItem is one named boolean market condition.
type ChecklistItem struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// MarketSnapshot is the assembled market state. It is constructed fresh
// on every assembly and never mutated afterwards.
type MarketSnapshot struct {
	Regime          string          `json:"regime"`
	BTCDominance    float64         `json:"btc_dominance"`
	ETHBTCRatio     float64         `json:"eth_btc_ratio"`
	AltDominance    float64         `json:"altcoin_dominance"`
	TotalMarketCapT float64         `json:"total_market_cap_t"`
	FearGreed       int             `json:"fear_greed_index"`
	BTCRSI          float64         `json:"bitcoin_rsi"`
	Checklist       []ChecklistItem `json:"checklist"`
	Passed          int             `json:"passed"`
	SourceHealth    map[string]bool `json:"source_health"`
	ETFFlows        []ResolvedFlow  `json:"etf_flows"`
	Confidence      float64         `json:"confidence"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// SnapshotValidation reports required-field completeness of a snapshot.
type SnapshotValidation struct {
	Valid      bool     `json:"valid"`
	Confidence float64  `json:"confidence"`
	Missing    []string `json:"missing,omitempty"`
}

// TrendDirection of a metric relative to its previous observation.
type TrendDirection string

const (
	TrendUp      TrendDirection = "Uptrend"
	TrendDown    TrendDirection = "Downtrend"
	TrendNeutral TrendDirection = "Neutral"
)

// SnapshotTrends carries per-metric direction of change versus the last
// snapshot produced for the same consumer.
type SnapshotTrends struct {
	BTCDominance TrendDirection `json:"btc_dominance"`
	ETHBTCRatio  TrendDirection `json:"eth_btc_ratio"`
	AltDominance TrendDirection `json:"altcoin_dominance"`
}
