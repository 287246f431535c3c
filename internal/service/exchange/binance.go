package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

const binanceBaseURL = "https://api.binance.com"

// Binance fetches daily spot klines from Binance.
// Kline shape: [openTime, open, high, low, close, volume, ...], close at
// index 4, oldest first.
type Binance struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.KlineSource = (*Binance)(nil)

func NewBinance(fetcher *xhttp.Fetcher, baseURL string) *Binance {
	if baseURL == "" {
		baseURL = binanceBaseURL
	}
	return &Binance{baseURL: baseURL, fetcher: fetcher}
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) DailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	var raw [][]json.RawMessage
	params := map[string][]string{
		"symbol":   {symbol + "USDT"},
		"interval": {"1d"},
		"limit":    {strconv.Itoa(limit)},
	}
	if err := b.fetcher.FetchJSON(ctx, b.baseURL+"/api/v3/klines", params, &raw); err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	closes := make([]float64, 0, len(raw))
	for _, k := range raw {
		if len(k) < 5 {
			continue
		}
		var s string
		if err := json.Unmarshal(k[4], &s); err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		v, err := parseClose(s)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		closes = append(closes, v)
	}
	return closes, nil
}
