package exchange

import (
	"fmt"
	"strconv"

	dservice "MarketPulse/internal/domain/service"
	xhttp "MarketPulse/pkg/http"
)

// Build creates KlineSources for the named exchanges, preserving order.
// Unknown names return an error so a config typo is caught at startup.
func Build(names []string, fetcher *xhttp.Fetcher) ([]dservice.KlineSource, error) {
	sources := make([]dservice.KlineSource, 0, len(names))
	for _, name := range names {
		switch name {
		case "binance":
			sources = append(sources, NewBinance(fetcher, ""))
		case "bybit":
			sources = append(sources, NewBybit(fetcher, ""))
		case "okx":
			sources = append(sources, NewOKX(fetcher, ""))
		case "kucoin":
			sources = append(sources, NewKuCoin(fetcher, ""))
		case "gate":
			sources = append(sources, NewGate(fetcher, ""))
		default:
			return nil, fmt.Errorf("exchange: unknown venue '%s'", name)
		}
	}
	return sources, nil
}

func parseClose(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse close %q: %w", s, err)
	}
	return v, nil
}

// reverse flips a close series in place. Venues that return newest-first
// candles use it to normalize to oldest-first.
func reverse(closes []float64) []float64 {
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	return closes
}
