package exchange

import (
	"context"
	"fmt"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

const kucoinBaseURL = "https://api.kucoin.com"

// KuCoin fetches daily candles from KuCoin.
// data entries: [time, open, close, high, low, volume, turnover] as
// strings, newest first. Close sits at index 2 on this venue.
type KuCoin struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.KlineSource = (*KuCoin)(nil)

func NewKuCoin(fetcher *xhttp.Fetcher, baseURL string) *KuCoin {
	if baseURL == "" {
		baseURL = kucoinBaseURL
	}
	return &KuCoin{baseURL: baseURL, fetcher: fetcher}
}

func (k *KuCoin) Name() string { return "kucoin" }

type kucoinCandlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

func (k *KuCoin) DailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	var resp kucoinCandlesResponse
	params := map[string][]string{
		"type":   {"1day"},
		"symbol": {symbol + "-USDT"},
	}
	if err := k.fetcher.FetchJSON(ctx, k.baseURL+"/api/v1/market/candles", params, &resp); err != nil {
		return nil, fmt.Errorf("kucoin candles %s: %w", symbol, err)
	}
	if resp.Code != "200000" {
		return nil, fmt.Errorf("kucoin candles %s: code %s: %s", symbol, resp.Code, resp.Msg)
	}

	rows := resp.Data
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	closes := make([]float64, 0, len(rows))
	for _, c := range rows {
		if len(c) < 3 {
			continue
		}
		v, err := parseClose(c[2])
		if err != nil {
			return nil, fmt.Errorf("kucoin candles %s: %w", symbol, err)
		}
		closes = append(closes, v)
	}
	return reverse(closes), nil
}
