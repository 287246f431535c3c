package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "MarketPulse/pkg/http"
)

func testFetcher() *xhttp.Fetcher {
	return xhttp.NewFetcher(xhttp.NewClient(), nil,
		xhttp.WithMaxAttempts(1), xhttp.WithBaseDelay(time.Millisecond))
}

func TestBinanceDailyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			t.Fatalf("unexpected symbol %s", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`[
			[1700000000000, "100", "110", "90", "105.5", "12"],
			[1700086400000, "105.5", "120", "100", "110.25", "15"]
		]`))
	}))
	defer srv.Close()

	b := NewBinance(testFetcher(), srv.URL)
	closes, err := b.DailyCloses(context.Background(), "BTC", 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{105.5, 110.25}
	if len(closes) != 2 || closes[0] != want[0] || closes[1] != want[1] {
		t.Fatalf("unexpected closes %v", closes)
	}
}

func TestBybitDailyClosesReversed(t *testing.T) {
	// Bybit returns newest first; closes must come back oldest first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
			["1700086400000","3","4","2","3.5","9","31"],
			["1700000000000","2","3","1","2.5","8","20"]
		]}}`))
	}))
	defer srv.Close()

	b := NewBybit(testFetcher(), srv.URL)
	closes, err := b.DailyCloses(context.Background(), "ETH", 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(closes) != 2 || closes[0] != 2.5 || closes[1] != 3.5 {
		t.Fatalf("expected oldest-first [2.5 3.5], got %v", closes)
	}
}

func TestKuCoinCloseIndex(t *testing.T) {
	// KuCoin rows are [time, open, close, high, low, ...], newest first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"200000","data":[
			["1700086400","10","12","13","9","100","1100"],
			["1700000000","9","10","11","8","90","900"]
		]}`))
	}))
	defer srv.Close()

	k := NewKuCoin(testFetcher(), srv.URL)
	closes, err := k.DailyCloses(context.Background(), "SOL", 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(closes) != 2 || closes[0] != 10 || closes[1] != 12 {
		t.Fatalf("expected [10 12], got %v", closes)
	}
}

func TestOKXErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"51001","msg":"instrument not found","data":[]}`))
	}))
	defer srv.Close()

	o := NewOKX(testFetcher(), srv.URL)
	if _, err := o.DailyCloses(context.Background(), "NOPE", 250); err == nil {
		t.Fatalf("expected error for non-zero code")
	}
}

func TestBuildRejectsUnknownVenue(t *testing.T) {
	if _, err := Build([]string{"binance", "mtgox"}, testFetcher()); err == nil {
		t.Fatalf("expected error for unknown venue")
	}

	sources, err := Build([]string{"binance", "bybit", "okx", "kucoin", "gate"}, testFetcher())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 5 {
		t.Fatalf("expected 5 sources, got %d", len(sources))
	}
	if sources[0].Name() != "binance" || sources[4].Name() != "gate" {
		t.Fatalf("order not preserved: %s..%s", sources[0].Name(), sources[4].Name())
	}
}
