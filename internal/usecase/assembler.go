package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	dservice "MarketPulse/internal/domain/service"
	"MarketPulse/internal/services/indicators"
	applogger "MarketPulse/pkg/logger"
)

// Core upstream source names used in the per-source health map.
const (
	sourceGlobal    = "global"
	sourceRatio     = "ratio"
	sourceSentiment = "sentiment"
	sourceHistory   = "history"
)

const rsiPeriod = 14

// Last known-good defaults used when an upstream source is down. The
// snapshot stays complete; only its confidence drops.
var outageDefaults = struct {
	btcDominance float64
	altDominance float64
	marketCapT   float64
	ethBTCRatio  float64
	fearGreed    int
	btcRSI       float64
}{
	btcDominance: 57.03,
	altDominance: 36.58,
	marketCapT:   2.91,
	ethBTCRatio:  0.03289,
	fearGreed:    16,
	btcRSI:       42.70,
}

// MarketStateAssembler orchestrates the upstream calls and the tiered
// ETF resolution into one validated snapshot. Snapshot always succeeds;
// failures degrade fields and confidence, never propagate.
type MarketStateAssembler struct {
	global    dservice.GlobalMarketSource
	ratio     dservice.PriceRatioSource
	sentiment dservice.SentimentSource
	history   dservice.HistorySource
	flows     dservice.FlowSource
	resolver  *TieredResolver
	assets    []string
	logger    *applogger.Logger
	metrics   domrepo.Metrics
}

// NewMarketStateAssembler creates an assembler tracking the given ETF
// assets.
func NewMarketStateAssembler(
	global dservice.GlobalMarketSource,
	ratio dservice.PriceRatioSource,
	sentiment dservice.SentimentSource,
	history dservice.HistorySource,
	flows dservice.FlowSource,
	resolver *TieredResolver,
	assets []string,
	logger *applogger.Logger,
	metrics domrepo.Metrics,
) *MarketStateAssembler {
	return &MarketStateAssembler{
		global:    global,
		ratio:     ratio,
		sentiment: sentiment,
		history:   history,
		flows:     flows,
		resolver:  resolver,
		assets:    assets,
		logger:    logger,
		metrics:   metrics,
	}
}

// Snapshot assembles the current market state. Each upstream call is
// independently guarded; a failed source flips its health flag and the
// corresponding fields fall back to the baked defaults.
func (a *MarketStateAssembler) Snapshot(ctx context.Context) *models.MarketSnapshot {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		health = map[string]bool{
			sourceGlobal:    false,
			sourceRatio:     false,
			sourceSentiment: false,
			sourceHistory:   false,
		}

		btcDominance = outageDefaults.btcDominance
		altDominance = outageDefaults.altDominance
		marketCapT   = outageDefaults.marketCapT
		ethBTCRatio  = outageDefaults.ethBTCRatio
		fearGreed    = outageDefaults.fearGreed
		btcRSI       = outageDefaults.btcRSI
	)

	guard := func(source string, fn func(ctx context.Context) error) {
		defer wg.Done()
		if a.metrics != nil {
			a.metrics.RecordFetch(source)
		}
		if err := fn(ctx); err != nil {
			if a.metrics != nil {
				a.metrics.RecordFetchError(source)
			}
			if a.logger != nil {
				a.logger.Warn("core source failed",
					applogger.String("source", source),
					applogger.Error(err),
				)
			}
			return
		}
		mu.Lock()
		health[source] = true
		mu.Unlock()
	}

	wg.Add(4)
	go guard(sourceGlobal, func(ctx context.Context) error {
		gm, err := a.global.GlobalMetrics(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		btcDominance = gm.BTCDominance
		altDominance = 100 - gm.BTCDominance - gm.USDTDominance
		marketCapT = gm.TotalMarketCapT
		mu.Unlock()
		return nil
	})
	go guard(sourceRatio, func(ctx context.Context) error {
		r, err := a.ratio.ETHBTCRatio(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		ethBTCRatio = r
		mu.Unlock()
		return nil
	})
	go guard(sourceSentiment, func(ctx context.Context) error {
		fg, err := a.sentiment.FearGreed(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		fearGreed = fg
		mu.Unlock()
		return nil
	})
	go guard(sourceHistory, func(ctx context.Context) error {
		closes, err := a.history.DailyCloses(ctx, "bitcoin", rsiPeriod)
		if err != nil {
			return err
		}
		rsi, ok := indicators.RSI(closes, rsiPeriod)
		if !ok {
			return fmt.Errorf("history too short for rsi: %d closes", len(closes))
		}
		mu.Lock()
		btcRSI = rsi
		mu.Unlock()
		return nil
	})
	wg.Wait()

	checklist := []models.ChecklistItem{
		{Name: "BTC Dominance < 45%", Passed: btcDominance < 45},
		{Name: "ETH/BTC > 0.07", Passed: ethBTCRatio > 0.07},
		{Name: "Altcoin Dominance > 50%", Passed: altDominance > 50},
		{Name: "Fear & Greed > 65", Passed: fearGreed > 65},
		{Name: "Bitcoin RSI > 50", Passed: btcRSI > 50},
	}
	passed := 0
	for _, item := range checklist {
		if item.Passed {
			passed++
		}
	}
	regime := models.RegimeBTCSeason
	if passed >= 3 {
		regime = models.RegimeAltSeason
	}

	etfFlows := a.resolveFlows(ctx)
	statuses := make([]models.Provenance, 0, len(etfFlows))
	for _, f := range etfFlows {
		statuses = append(statuses, f.Status)
	}

	healthy := 0
	for _, ok := range health {
		if ok {
			healthy++
		}
	}
	confidence := BlendConfidence(healthy, len(health), ScoreStatuses(statuses))
	if a.metrics != nil {
		a.metrics.RecordConfidence(confidence)
	}

	return &models.MarketSnapshot{
		Regime:          regime,
		BTCDominance:    btcDominance,
		ETHBTCRatio:     ethBTCRatio,
		AltDominance:    altDominance,
		TotalMarketCapT: marketCapT,
		FearGreed:       fearGreed,
		BTCRSI:          btcRSI,
		Checklist:       checklist,
		Passed:          passed,
		SourceHealth:    health,
		ETFFlows:        etfFlows,
		Confidence:      confidence,
		GeneratedAt:     time.Now().UTC(),
	}
}

// ETFFlows resolves the tracked flow list on its own, for consumers
// that want the list without a full snapshot. Sorted by descending
// absolute flow, with an aggregate confidence.
func (a *MarketStateAssembler) ETFFlows(ctx context.Context) ([]models.ResolvedFlow, float64) {
	flows := a.resolveFlows(ctx)
	statuses := make([]models.Provenance, 0, len(flows))
	for _, f := range flows {
		statuses = append(statuses, f.Status)
	}
	return flows, ScoreStatuses(statuses)
}

func (a *MarketStateAssembler) resolveFlows(ctx context.Context) []models.ResolvedFlow {
	flows := make([]models.ResolvedFlow, 0, len(a.assets))
	for _, asset := range a.assets {
		asset := asset
		flows = append(flows, a.resolver.Resolve(ctx, asset, func(ctx context.Context) (*dservice.FlowReading, error) {
			return a.flows.NetFlow(ctx, asset)
		}))
	}
	SortFlows(flows)
	return flows
}

// Snapshot fields gated on each core source's health.
var requiredBySource = map[string][]string{
	sourceGlobal:    {"btc_dominance", "altcoin_dominance", "total_market_cap"},
	sourceRatio:     {"eth_btc_ratio"},
	sourceSentiment: {"fear_greed_index"},
	sourceHistory:   {"bitcoin_rsi"},
}

// Fields that are always present by construction.
var alwaysPresent = []string{"regime", "checklist", "etf_flows", "confidence"}

// Validate checks required-field completeness: a field fed by an
// unhealthy source counts as missing. Valid iff at least 80% of the
// required fields are present.
func (a *MarketStateAssembler) Validate(snap *models.MarketSnapshot) models.SnapshotValidation {
	total := len(alwaysPresent)
	present := len(alwaysPresent)
	var missing []string

	for source, fields := range requiredBySource {
		total += len(fields)
		if snap.SourceHealth[source] {
			present += len(fields)
			continue
		}
		missing = append(missing, fields...)
	}

	return models.SnapshotValidation{
		Valid:      float64(present)/float64(total) >= 0.8,
		Confidence: snap.Confidence,
		Missing:    missing,
	}
}
