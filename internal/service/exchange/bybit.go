package exchange

import (
	"context"
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

const bybitBaseURL = "https://api.bybit.com"

// Bybit fetches daily spot klines from Bybit v5.
// result.list entries: [startTime, open, high, low, close, volume,
// turnover] as strings, newest first.
type Bybit struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.KlineSource = (*Bybit)(nil)

func NewBybit(fetcher *xhttp.Fetcher, baseURL string) *Bybit {
	if baseURL == "" {
		baseURL = bybitBaseURL
	}
	return &Bybit{baseURL: baseURL, fetcher: fetcher}
}

func (b *Bybit) Name() string { return "bybit" }

type bybitKlineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List [][]string `json:"list"`
	} `json:"result"`
}

func (b *Bybit) DailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	var resp bybitKlineResponse
	params := map[string][]string{
		"category": {"spot"},
		"symbol":   {symbol + "USDT"},
		"interval": {"D"},
		"limit":    {strconv.Itoa(limit)},
	}
	if err := b.fetcher.FetchJSON(ctx, b.baseURL+"/v5/market/kline", params, &resp); err != nil {
		return nil, fmt.Errorf("bybit kline %s: %w", symbol, err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit kline %s: retCode %d: %s", symbol, resp.RetCode, resp.RetMsg)
	}

	closes := make([]float64, 0, len(resp.Result.List))
	for _, k := range resp.Result.List {
		if len(k) < 5 {
			continue
		}
		v, err := parseClose(k[4])
		if err != nil {
			return nil, fmt.Errorf("bybit kline %s: %w", symbol, err)
		}
		closes = append(closes, v)
	}
	return reverse(closes), nil
}
