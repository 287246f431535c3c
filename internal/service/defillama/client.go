package defillama

import (
	"context"
	"fmt"
	"time"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/util"
)

// Asset keys with a live DefiLlama ETF feed. GOLD and SILVER have no
// live source and always resolve through the cache/estimate tiers.
var endpoints = map[string]string{
	"BTC": "/etfs/bitcoin",
	"ETH": "/etfs/ethereum",
}

// Client fetches ETF net flows from DefiLlama.
type Client struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.FlowSource = (*Client)(nil)

func New(baseURL string, fetcher *xhttp.Fetcher) *Client {
	return &Client{baseURL: baseURL, fetcher: fetcher}
}

type etfResponse struct {
	NetFlow *float64 `json:"netFlow"`
	Date    string   `json:"date"`
}

// NetFlow returns the current ETF net flow for an asset, or (nil, nil)
// when the asset has no live feed.
func (c *Client) NetFlow(ctx context.Context, asset string) (*dservice.FlowReading, error) {
	path, ok := endpoints[asset]
	if !ok {
		return nil, nil
	}

	var resp etfResponse
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+path, nil, &resp); err != nil {
		return nil, fmt.Errorf("defillama %s: %w", asset, err)
	}
	if resp.NetFlow == nil {
		return nil, fmt.Errorf("defillama %s: empty payload", asset)
	}

	date := resp.Date
	if date == "" {
		date = util.DayString(time.Now())
	}
	return &dservice.FlowReading{Flow: *resp.NetFlow, Date: date}, nil
}
