package exchange

import (
	"context"
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

const okxBaseURL = "https://www.okx.com"

// OKX fetches daily candles from OKX v5.
// data entries: [ts, open, high, low, close, vol, ...] as strings,
// newest first. The candles endpoint caps limit at 300.
type OKX struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.KlineSource = (*OKX)(nil)

func NewOKX(fetcher *xhttp.Fetcher, baseURL string) *OKX {
	if baseURL == "" {
		baseURL = okxBaseURL
	}
	return &OKX{baseURL: baseURL, fetcher: fetcher}
}

func (o *OKX) Name() string { return "okx" }

type okxCandlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

func (o *OKX) DailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	var resp okxCandlesResponse
	params := map[string][]string{
		"instId": {symbol + "-USDT"},
		"bar":    {"1D"},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := o.fetcher.FetchJSON(ctx, o.baseURL+"/api/v5/market/candles", params, &resp); err != nil {
		return nil, fmt.Errorf("okx candles %s: %w", symbol, err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx candles %s: code %s: %s", symbol, resp.Code, resp.Msg)
	}

	closes := make([]float64, 0, len(resp.Data))
	for _, k := range resp.Data {
		if len(k) < 5 {
			continue
		}
		v, err := parseClose(k[4])
		if err != nil {
			return nil, fmt.Errorf("okx candles %s: %w", symbol, err)
		}
		closes = append(closes, v)
	}
	return reverse(closes), nil
}
