package service

import "context"

// GlobalMetrics is one cycle's global market aggregates.
type GlobalMetrics struct {
	BTCDominance    float64
	USDTDominance   float64
	TotalMarketCapT float64 // trillions of USD
}

// GlobalMarketSource fetches global market-cap and dominance metrics.
type GlobalMarketSource interface {
	GlobalMetrics(ctx context.Context) (*GlobalMetrics, error)
}

// PriceRatioSource fetches the ETH/BTC spot price ratio.
type PriceRatioSource interface {
	ETHBTCRatio(ctx context.Context) (float64, error)
}

// SentimentSource fetches the current fear & greed index.
type SentimentSource interface {
	FearGreed(ctx context.Context) (int, error)
}

// HistorySource fetches a recent daily close series for a coin.
type HistorySource interface {
	DailyCloses(ctx context.Context, coinID string, days int) ([]float64, error)
}

// FlowReading is one live ETF flow observation.
type FlowReading struct {
	Flow float64
	Date string
}

// FlowSource fetches the current ETF net flow for an asset. A source
// returning (nil, nil) has no live feed for the asset.
type FlowSource interface {
	NetFlow(ctx context.Context, asset string) (*FlowReading, error)
}

// KlineSource fetches recent daily candle closes for a trading pair on
// one exchange. Closes are returned oldest first.
type KlineSource interface {
	Name() string
	DailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error)
}
