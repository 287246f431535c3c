package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	applogger "MarketPulse/pkg/logger"
)

// ErrRetriesExhausted is returned after every fetch attempt has failed.
var ErrRetriesExhausted = errors.New("fetch: retries exhausted")

// FetcherOption configures Fetcher.
type FetcherOption func(*Fetcher)

// Fetcher performs GET-for-JSON calls with bounded retries and
// exponential backoff. Safe for concurrent use.
type Fetcher struct {
	client      *Client
	logger      *applogger.Logger
	maxAttempts int
	baseDelay   time.Duration
	headers     map[string]string
}

// NewFetcher creates a retrying JSON fetcher over the given client.
func NewFetcher(client *Client, logger *applogger.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.maxAttempts < 1 {
		f.maxAttempts = 1
	}
	if f.baseDelay <= 0 {
		f.baseDelay = time.Second
	}

	return f
}

// FetchJSON issues a GET and decodes the JSON body into dest, retrying
// transport errors and non-2xx statuses. The delay before attempt n+1 is
// baseDelay * 2^n. After maxAttempts failures it returns an error wrapping
// ErrRetriesExhausted; it never treats an HTTP error status as fatal
// before the attempts are used up.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, params map[string][]string, dest interface{}) error {
	var lastErr error

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := f.baseDelay * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return fmt.Errorf("fetch %s: %w", url, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := f.client.SendAndParse(ctx, &RequestOptions{
			Method:      MethodGet,
			URL:         url,
			Headers:     f.headers,
			QueryParams: params,
		}, dest)
		if err == nil {
			return nil
		}
		lastErr = err

		if f.logger != nil {
			f.logger.Warn("fetch attempt failed",
				applogger.String("url", url),
				applogger.Int("attempt", attempt+1),
				applogger.Int("max_attempts", f.maxAttempts),
				applogger.Error(err),
			)
		}
	}

	if f.logger != nil {
		f.logger.Error("fetch retries exhausted",
			applogger.String("url", url),
			applogger.Int("attempts", f.maxAttempts),
			applogger.Error(lastErr),
		)
	}
	return fmt.Errorf("fetch %s: %w: %w", url, ErrRetriesExhausted, lastErr)
}

// WithMaxAttempts sets how many attempts a fetch may use (minimum 1).
func WithMaxAttempts(n int) FetcherOption {
	return func(f *Fetcher) {
		f.maxAttempts = n
	}
}

// WithBaseDelay sets the first backoff delay.
func WithBaseDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithHeaders sets headers sent on every request.
func WithHeaders(h map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = h
	}
}
