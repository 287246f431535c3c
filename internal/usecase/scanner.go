package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	dservice "MarketPulse/internal/domain/service"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/services/indicators"
	applogger "MarketPulse/pkg/logger"
)

// History thresholds per symbol: below minCandles the symbol is skipped,
// below fullCandles the degraded MA20/50 pairing is used.
const (
	minCandles  = 50
	fullCandles = 200
)

// ScannerOption configures ExchangeSignalScanner.
type ScannerOption func(*ExchangeSignalScanner)

// ExchangeSignalScanner periodically scans the configured exchanges for
// moving-average crossovers and publishes complete result sets into the
// SignalCache. Exchanges are scanned sequentially with a politeness
// pause; symbol fetches within an exchange run concurrently under one
// global semaphore shared across the whole scanner.
type ExchangeSignalScanner struct {
	sources []dservice.KlineSource
	cache   *SignalCache
	archive domrepo.SignalArchive
	events  domrepo.SignalEvents
	metrics domrepo.Metrics
	logger  *applogger.Logger
	limiter *ratelimit.Limiter

	watchlist     []string
	maxSymbols    int
	candleLimit   int
	interval      time.Duration
	exchangePause time.Duration
	cooldown      time.Duration
	sem           chan struct{}
}

// NewExchangeSignalScanner creates a scanner over the given kline
// sources. The source order is the scan order.
func NewExchangeSignalScanner(
	sources []dservice.KlineSource,
	cache *SignalCache,
	watchlist []string,
	logger *applogger.Logger,
	metrics domrepo.Metrics,
	opts ...ScannerOption,
) *ExchangeSignalScanner {
	s := &ExchangeSignalScanner{
		sources:       sources,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		limiter:       ratelimit.New(),
		watchlist:     watchlist,
		maxSymbols:    100,
		candleLimit:   250,
		interval:      30 * time.Minute,
		exchangePause: 2 * time.Second,
		cooldown:      time.Minute,
	}

	for _, opt := range opts {
		opt(s)
	}

	if cap(s.sem) == 0 {
		s.sem = make(chan struct{}, 8)
	}
	return s
}

// WithScanInterval sets the sleep between scan cycles.
func WithScanInterval(d time.Duration) ScannerOption {
	return func(s *ExchangeSignalScanner) { s.interval = d }
}

// WithExchangePause sets the politeness delay between exchanges.
func WithExchangePause(d time.Duration) ScannerOption {
	return func(s *ExchangeSignalScanner) { s.exchangePause = d }
}

// WithCooldown sets the restart delay after a cycle panic.
func WithCooldown(d time.Duration) ScannerOption {
	return func(s *ExchangeSignalScanner) { s.cooldown = d }
}

// WithMaxSymbols bounds how many watch-list symbols are scanned per
// exchange.
func WithMaxSymbols(n int) ScannerOption {
	return func(s *ExchangeSignalScanner) {
		if n > 0 {
			s.maxSymbols = n
		}
	}
}

// WithMaxConcurrent sets the global outbound request bound.
func WithMaxConcurrent(n int) ScannerOption {
	return func(s *ExchangeSignalScanner) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// WithCandleLimit sets how many daily candles are requested per symbol.
func WithCandleLimit(n int) ScannerOption {
	return func(s *ExchangeSignalScanner) {
		if n > 0 {
			s.candleLimit = n
		}
	}
}

// WithSignalArchive attaches an optional write-only archive sink.
func WithSignalArchive(a domrepo.SignalArchive) ScannerOption {
	return func(s *ExchangeSignalScanner) { s.archive = a }
}

// WithSignalEvents attaches an optional publish-event emitter.
func WithSignalEvents(e domrepo.SignalEvents) ScannerOption {
	return func(s *ExchangeSignalScanner) { s.events = e }
}

// Run is the supervised scan loop. It blocks until ctx is cancelled. A
// panic escaping a cycle is logged and the loop restarts after the
// cooldown instead of terminating. With no exchanges configured it logs
// once and exits; the cache then stays permanently empty.
func (s *ExchangeSignalScanner) Run(ctx context.Context) {
	if len(s.sources) == 0 {
		if s.logger != nil {
			s.logger.Warn("no exchanges configured, signal scanner disabled")
		}
		return
	}

	for {
		err := s.runCycle(ctx)

		sleep := s.interval
		if err != nil {
			if s.logger != nil {
				s.logger.Error("scan cycle crashed, restarting after cooldown",
					applogger.Error(err),
					applogger.Duration("cooldown", s.cooldown),
				)
			}
			sleep = s.cooldown
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// runCycle executes one full scan across both cross types. The returned
// error is only ever a recovered panic; expected failures are handled
// inside the cycle.
func (s *ExchangeSignalScanner) runCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan cycle panic: %v", r)
		}
	}()

	for _, crossType := range []models.CrossType{models.CrossGolden, models.CrossDeath} {
		signals := make([]models.CrossSignal, 0)

		for i, src := range s.sources {
			if i > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(s.exchangePause):
				}
			}

			start := time.Now()
			found, scanErr := s.scanExchange(ctx, src, crossType)
			if s.metrics != nil {
				s.metrics.RecordScanDuration(src.Name(), time.Since(start).Seconds())
			}
			if scanErr != nil {
				// One exchange down must not stop the rest of the cycle.
				if s.logger != nil {
					s.logger.Error("exchange scan failed",
						applogger.String("exchange", src.Name()),
						applogger.String("cross_type", string(crossType)),
						applogger.Error(scanErr),
					)
				}
				continue
			}
			signals = append(signals, found...)
		}

		set := &models.SignalSet{
			Type:      crossType,
			Signals:   signals,
			ScannedAt: time.Now().UTC(),
		}
		s.cache.Publish(set)
		if s.metrics != nil {
			s.metrics.RecordSignals(string(crossType), len(signals))
		}
		if s.logger != nil {
			s.logger.Info("scan cycle published",
				applogger.String("cross_type", string(crossType)),
				applogger.Int("signals", len(signals)),
			)
		}

		s.notify(ctx, set)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}

	if s.metrics != nil {
		s.metrics.RecordScanCycle()
	}
	return nil
}

// notify fans the published set out to the optional sinks. Both are
// fire-and-forget; failures are logged and never affect the cycle.
func (s *ExchangeSignalScanner) notify(ctx context.Context, set *models.SignalSet) {
	if s.archive != nil {
		if err := s.archive.Archive(ctx, set); err != nil && s.logger != nil {
			s.logger.Warn("signal archive failed", applogger.Error(err))
		}
	}
	if s.events != nil {
		if err := s.events.ScanPublished(ctx, set); err != nil && s.logger != nil {
			s.logger.Warn("scan event publish failed", applogger.Error(err))
		}
	}
}

// scanExchange scans the bounded watch list on one exchange. Symbol
// fetches run concurrently under the global semaphore. A panic while
// scanning is converted to an error so the caller can isolate it.
func (s *ExchangeSignalScanner) scanExchange(ctx context.Context, src dservice.KlineSource, crossType models.CrossType) (signals []models.CrossSignal, err error) {
	defer func() {
		if r := recover(); r != nil {
			signals, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	symbols := s.watchlist
	if len(symbols) > s.maxSymbols {
		symbols = symbols[:s.maxSymbols]
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			wg.Wait()
			return signals, nil
		case s.sem <- struct{}{}:
		}

		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-s.sem }()
			defer func() {
				if r := recover(); r != nil && s.logger != nil {
					s.logger.Error("symbol scan panic",
						applogger.String("exchange", src.Name()),
						applogger.String("symbol", symbol),
						applogger.Any("panic", r),
					)
				}
			}()

			s.pace(ctx, src.Name())

			sig, ok := s.scanSymbol(ctx, src, symbol, crossType)
			if !ok {
				return
			}
			mu.Lock()
			signals = append(signals, sig)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()
	return signals, nil
}

// scanSymbol fetches the symbol's daily closes and applies the cross
// detection, degrading the MA pairing when history is short.
func (s *ExchangeSignalScanner) scanSymbol(ctx context.Context, src dservice.KlineSource, symbol string, crossType models.CrossType) (models.CrossSignal, bool) {
	closes, err := src.DailyCloses(ctx, symbol, s.candleLimit)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("symbol fetch failed",
				applogger.String("exchange", src.Name()),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return models.CrossSignal{}, false
	}

	if len(closes) < minCandles {
		return models.CrossSignal{}, false
	}

	fastPeriod, slowPeriod, pairing := 50, 200, models.PairingFull
	if len(closes) < fullCandles {
		fastPeriod, slowPeriod, pairing = 20, 50, models.PairingDegraded
	}

	golden, death, fast, slow := indicators.Cross(closes, fastPeriod, slowPeriod)
	if (crossType == models.CrossGolden && !golden) || (crossType == models.CrossDeath && !death) {
		return models.CrossSignal{}, false
	}

	return models.CrossSignal{
		Symbol:     symbol,
		Exchange:   src.Name(),
		Pairing:    pairing,
		FastMA:     fast,
		SlowMA:     slow,
		DetectedAt: time.Now().UTC(),
	}, true
}

// pace throttles per-exchange request rate on top of the global
// concurrency bound.
func (s *ExchangeSignalScanner) pace(ctx context.Context, exchange string) {
	for !s.limiter.Allow(exchange, 10, 5) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
