package alternative

import (
	"context"
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

// Client fetches the alternative.me fear & greed index.
type Client struct {
	baseURL string
	fetcher *xhttp.Fetcher
}

var _ dservice.SentimentSource = (*Client)(nil)

func New(baseURL string, fetcher *xhttp.Fetcher) *Client {
	return &Client{baseURL: baseURL, fetcher: fetcher}
}

type fngResponse struct {
	Data []struct {
		Value string `json:"value"`
	} `json:"data"`
}

// FearGreed returns the latest fear & greed index value.
func (c *Client) FearGreed(ctx context.Context) (int, error) {
	var resp fngResponse
	params := map[string][]string{"limit": {"1"}}
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+"/fng/", params, &resp); err != nil {
		return 0, fmt.Errorf("fear greed: %w", err)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("fear greed: empty response")
	}
	v, err := strconv.Atoi(resp.Data[0].Value)
	if err != nil {
		return 0, fmt.Errorf("fear greed: parse value: %w", err)
	}
	return v, nil
}
