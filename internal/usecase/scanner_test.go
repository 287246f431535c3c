package usecase

import (
	"context"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	dservice "MarketPulse/internal/domain/service"
)

func testScanner(t *testing.T, cache *SignalCache, sources ...dservice.KlineSource) *ExchangeSignalScanner {
	t.Helper()
	return NewExchangeSignalScanner(sources, cache, []string{"BTC", "ETH", "SOL"}, newTestLogger(t), noopMetrics{},
		WithExchangePause(time.Millisecond),
		WithMaxConcurrent(4),
	)
}

func TestScanCycleDetectsGoldenCross(t *testing.T) {
	cache := NewSignalCache()
	s := testScanner(t, cache, stubKline{
		name: "binance",
		series: map[string][]float64{
			"BTC": flatThenSpike(250, 10000, 12000),
			"ETH": flatThenSpike(250, 10000, 10000),
			"SOL": flatThenSpike(250, 10000, 8000),
		},
	})

	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	golden, staleness := cache.Read(models.CrossGolden)
	if staleness == NotYetPopulated {
		t.Fatalf("golden set not published")
	}
	if len(golden) != 1 || golden[0].Symbol != "BTC" {
		t.Fatalf("golden = %+v, want one BTC signal", golden)
	}
	if golden[0].Pairing != models.PairingFull {
		t.Fatalf("pairing = %q, want %q for 250 candles", golden[0].Pairing, models.PairingFull)
	}
	if golden[0].Exchange != "binance" {
		t.Fatalf("exchange = %q, want binance", golden[0].Exchange)
	}

	death, _ := cache.Read(models.CrossDeath)
	if len(death) != 1 || death[0].Symbol != "SOL" {
		t.Fatalf("death = %+v, want one SOL signal", death)
	}
}

func TestScanCycleDegradedPairing(t *testing.T) {
	cache := NewSignalCache()
	s := testScanner(t, cache, stubKline{
		name: "bybit",
		series: map[string][]float64{
			"BTC": flatThenSpike(120, 10000, 12000),
			"ETH": flatThenSpike(120, 10000, 10000),
			"SOL": flatThenSpike(120, 10000, 10000),
		},
	})

	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	golden, _ := cache.Read(models.CrossGolden)
	if len(golden) != 1 {
		t.Fatalf("golden = %+v, want one signal", golden)
	}
	if golden[0].Pairing != models.PairingDegraded {
		t.Fatalf("pairing = %q, want %q below 200 candles", golden[0].Pairing, models.PairingDegraded)
	}
}

func TestScanCycleSkipsShortHistory(t *testing.T) {
	cache := NewSignalCache()
	s := testScanner(t, cache, stubKline{
		name: "okx",
		series: map[string][]float64{
			"BTC": flatThenSpike(40, 10000, 12000),
			"ETH": flatThenSpike(49, 10000, 12000),
			"SOL": flatThenSpike(30, 10000, 8000),
		},
	})

	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	golden, staleness := cache.Read(models.CrossGolden)
	if staleness == NotYetPopulated {
		t.Fatalf("set was not published")
	}
	if len(golden) != 0 {
		t.Fatalf("golden = %+v, want none for short histories", golden)
	}
}

func TestScanCycleIsolatesFailingExchange(t *testing.T) {
	cache := NewSignalCache()
	s := testScanner(t, cache,
		stubKline{name: "binance", err: errSourceDown},
		stubKline{name: "kucoin", panicOn: true},
		stubKline{
			name: "gate",
			series: map[string][]float64{
				"BTC": flatThenSpike(250, 10000, 12000),
				"ETH": flatThenSpike(250, 10000, 10000),
				"SOL": flatThenSpike(250, 10000, 10000),
			},
		},
	)

	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	golden, _ := cache.Read(models.CrossGolden)
	if len(golden) != 1 || golden[0].Exchange != "gate" {
		t.Fatalf("golden = %+v, want one gate signal despite other venues failing", golden)
	}
}

func TestScanCyclesAdvanceTimestamp(t *testing.T) {
	cache := NewSignalCache()
	s := testScanner(t, cache, stubKline{
		name: "binance",
		series: map[string][]float64{
			"BTC": flatThenSpike(250, 10000, 10000),
			"ETH": flatThenSpike(250, 10000, 10000),
			"SOL": flatThenSpike(250, 10000, 10000),
		},
	})

	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	first := cache.sets[models.CrossGolden].ScannedAt

	time.Sleep(5 * time.Millisecond)
	if err := s.runCycle(context.Background()); err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	second := cache.sets[models.CrossGolden].ScannedAt

	if !second.After(first) {
		t.Fatalf("scanned_at did not advance: %v then %v", first, second)
	}
}

func TestRunExitsWithoutSources(t *testing.T) {
	s := NewExchangeSignalScanner(nil, NewSignalCache(), nil, newTestLogger(t), noopMetrics{})

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not exit with no exchanges configured")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cache := NewSignalCache()
	s := testScanner(t, cache, stubKline{
		name: "binance",
		series: map[string][]float64{
			"BTC": flatThenSpike(250, 10000, 10000),
			"ETH": flatThenSpike(250, 10000, 10000),
			"SOL": flatThenSpike(250, 10000, 10000),
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
