package coingecko

import (
	"context"
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

// Client implements the CoinGecko-backed market sources.
type Client struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var (
	_ dservice.GlobalMarketSource = (*Client)(nil)
	_ dservice.PriceRatioSource   = (*Client)(nil)
	_ dservice.HistorySource      = (*Client)(nil)
)

// New creates a CoinGecko client.
func New(baseURL string, fetcher *xhttp.Fetcher) *Client {
	return &Client{baseURL: baseURL, fetcher: fetcher}
}

type globalResponse struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
	} `json:"data"`
}

// GlobalMetrics fetches dominance percentages and total market cap.
func (c *Client) GlobalMetrics(ctx context.Context) (*dservice.GlobalMetrics, error) {
	var resp globalResponse
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+"/global", nil, &resp); err != nil {
		return nil, fmt.Errorf("coingecko global: %w", err)
	}

	return &dservice.GlobalMetrics{
		BTCDominance:    resp.Data.MarketCapPercentage["btc"],
		USDTDominance:   resp.Data.MarketCapPercentage["usdt"],
		TotalMarketCapT: resp.Data.TotalMarketCap["usd"] / 1e12,
	}, nil
}

// ETHBTCRatio fetches spot prices and returns ethereum/bitcoin.
func (c *Client) ETHBTCRatio(ctx context.Context) (float64, error) {
	var prices map[string]map[string]float64
	params := map[string][]string{
		"ids":           {"ethereum,bitcoin"},
		"vs_currencies": {"usd"},
	}
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+"/simple/price", params, &prices); err != nil {
		return 0, fmt.Errorf("coingecko simple price: %w", err)
	}

	eth := prices["ethereum"]["usd"]
	btc := prices["bitcoin"]["usd"]
	if btc == 0 {
		return 0, fmt.Errorf("coingecko simple price: zero bitcoin price")
	}
	return eth / btc, nil
}

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// DailyCloses fetches the recent daily close series for a coin,
// oldest first.
func (c *Client) DailyCloses(ctx context.Context, coinID string, days int) ([]float64, error) {
	var resp marketChartResponse
	params := map[string][]string{
		"vs_currency": {"usd"},
		"days":        {strconv.Itoa(days)},
		"interval":    {"daily"},
	}
	url := fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, coinID)
	if err := c.fetcher.FetchJSON(ctx, url, params, &resp); err != nil {
		return nil, fmt.Errorf("coingecko market chart %s: %w", coinID, err)
	}

	closes := make([]float64, 0, len(resp.Prices))
	for _, p := range resp.Prices {
		if len(p) < 2 {
			continue
		}
		closes = append(closes, p[1])
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("coingecko market chart %s: empty series", coinID)
	}
	return closes, nil
}
