package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchJSONRecoversAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(), nil, WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	var out struct {
		Value int `json:"value"`
	}
	if err := f.FetchJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != 42 {
		t.Fatalf("unexpected value %d", out.Value)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestFetchJSONExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(), nil, WithMaxAttempts(4), WithBaseDelay(time.Millisecond))

	err := f.FetchJSON(context.Background(), srv.URL, nil, nil)
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Fatalf("expected 4 attempts, got %d", got)
	}
}

func TestFetchJSONQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vs_currency") != "usd" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(), nil, WithMaxAttempts(1), WithBaseDelay(time.Millisecond))

	params := map[string][]string{"vs_currency": {"usd"}}
	if err := f.FetchJSON(context.Background(), srv.URL, params, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchJSONContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(NewClient(), nil, WithMaxAttempts(5), WithBaseDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.FetchJSON(ctx, srv.URL, nil, nil)
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
