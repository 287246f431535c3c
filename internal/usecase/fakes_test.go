package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"MarketPulse/internal/domain/models"
	dservice "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"
)

func newTestLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string)               {}
func (noopMetrics) RecordFetchError(string)          {}
func (noopMetrics) RecordResolution(string, string)  {}
func (noopMetrics) RecordConfidence(float64)         {}
func (noopMetrics) RecordSignals(string, int)        {}
func (noopMetrics) RecordScanDuration(string, float64) {}
func (noopMetrics) RecordScanCycle()                 {}

// memFlowStore is an in-memory FlowStore with injectable failures.
type memFlowStore struct {
	mu      sync.Mutex
	entries map[string]models.FlowEntry
	saveErr error
	saves   int
}

func newMemFlowStore(entries map[string]models.FlowEntry) *memFlowStore {
	if entries == nil {
		entries = make(map[string]models.FlowEntry)
	}
	return &memFlowStore{entries: entries}
}

func (s *memFlowStore) Load() (map[string]models.FlowEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.FlowEntry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *memFlowStore) Save(entries map[string]models.FlowEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries = entries
	return nil
}

var errSourceDown = errors.New("source down")

type stubGlobal struct {
	metrics *dservice.GlobalMetrics
	err     error
}

func (s stubGlobal) GlobalMetrics(context.Context) (*dservice.GlobalMetrics, error) {
	return s.metrics, s.err
}

type stubRatio struct {
	ratio float64
	err   error
}

func (s stubRatio) ETHBTCRatio(context.Context) (float64, error) { return s.ratio, s.err }

type stubSentiment struct {
	value int
	err   error
}

func (s stubSentiment) FearGreed(context.Context) (int, error) { return s.value, s.err }

type stubHistory struct {
	closes []float64
	err    error
}

func (s stubHistory) DailyCloses(context.Context, string, int) ([]float64, error) {
	return s.closes, s.err
}

type stubFlows struct {
	readings map[string]*dservice.FlowReading
	err      error
}

func (s stubFlows) NetFlow(_ context.Context, asset string) (*dservice.FlowReading, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.readings[asset], nil
}

// stubKline serves canned close series per symbol. A nil series entry
// yields an error for that symbol; panicOn triggers a panic to exercise
// fault isolation.
type stubKline struct {
	name    string
	series  map[string][]float64
	err     error
	panicOn bool
}

func (s stubKline) Name() string { return s.name }

func (s stubKline) DailyCloses(_ context.Context, symbol string, _ int) ([]float64, error) {
	if s.panicOn {
		panic("kline decode blew up")
	}
	if s.err != nil {
		return nil, s.err
	}
	closes, ok := s.series[symbol]
	if !ok {
		return nil, errSourceDown
	}
	return closes, nil
}

// flatThenSpike builds n flat closes at base with the final close
// replaced by last, the minimal shape that flips a moving-average
// ordering on the last bar.
func flatThenSpike(n int, base, last float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = base
	}
	closes[n-1] = last
	return closes
}

func rising(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}
