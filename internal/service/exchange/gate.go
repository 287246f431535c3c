package exchange

import (
	"context"
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

const gateBaseURL = "https://api.gateio.ws"

// Gate fetches daily candlesticks from Gate.io v4.
// Entries: [timestamp, quoteVolume, close, high, low, open, baseVolume,
// ...] as strings, oldest first. Close sits at index 2 on this venue.
type Gate struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.KlineSource = (*Gate)(nil)

func NewGate(fetcher *xhttp.Fetcher, baseURL string) *Gate {
	if baseURL == "" {
		baseURL = gateBaseURL
	}
	return &Gate{baseURL: baseURL, fetcher: fetcher}
}

func (g *Gate) Name() string { return "gate" }

func (g *Gate) DailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	var raw [][]string
	params := map[string][]string{
		"currency_pair": {symbol + "_USDT"},
		"interval":      {"1d"},
		"limit":         {strconv.Itoa(limit)},
	}
	if err := g.fetcher.FetchJSON(ctx, g.baseURL+"/api/v4/spot/candlesticks", params, &raw); err != nil {
		return nil, fmt.Errorf("gate candlesticks %s: %w", symbol, err)
	}

	closes := make([]float64, 0, len(raw))
	for _, c := range raw {
		if len(c) < 3 {
			continue
		}
		v, err := parseClose(c[2])
		if err != nil {
			return nil, fmt.Errorf("gate candlesticks %s: %w", symbol, err)
		}
		closes = append(closes, v)
	}
	return closes, nil
}
