package di

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/handler/api"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/service/alternative"
	"MarketPulse/internal/service/coingecko"
	"MarketPulse/internal/service/defillama"
	"MarketPulse/internal/service/exchange"
	"MarketPulse/internal/usecase"
	pkgcache "MarketPulse/pkg/cache"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"
)

// Fallback flow estimates served when an asset has neither a live
// reading nor a cached one.
var defaultEstimates = map[string]float64{
	"BTC":    150.0,
	"ETH":    45.0,
	"GOLD":   80.0,
	"SILVER": 12.0,
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideFetcher creates the shared retrying HTTP fetcher for all
// upstream sources.
func ProvideFetcher(cfg *config.Config, logger *applogger.Logger) *xhttp.Fetcher {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Sources.RequestTimeout))

	opts := []xhttp.FetcherOption{
		xhttp.WithMaxAttempts(cfg.Sources.MaxAttempts),
		xhttp.WithBaseDelay(cfg.Sources.BaseDelay),
	}
	if cfg.Sources.APIKey != "" {
		opts = append(opts, xhttp.WithHeaders(map[string]string{
			"x-cg-demo-api-key": cfg.Sources.APIKey,
		}))
	}
	return xhttp.NewFetcher(client, logger, opts...)
}

// ProvideFlowStore creates the on-disk ETF flow cache.
func ProvideFlowStore(cfg *config.Config, logger *applogger.Logger) domrepo.FlowStore {
	return internalrepo.NewFlowFileStore(cfg.ETF.CacheFile, logger)
}

// ProvideResolver creates the tiered flow resolver seeded from the
// on-disk cache.
func ProvideResolver(store domrepo.FlowStore, logger *applogger.Logger, m domrepo.Metrics) (*usecase.TieredResolver, error) {
	opts := make([]usecase.ResolverOption, 0, len(defaultEstimates))
	for asset, flow := range defaultEstimates {
		opts = append(opts, usecase.WithEstimate(asset, flow))
	}
	return usecase.NewTieredResolver(store, logger, m, opts...)
}

// ProvideCoinGecko creates the CoinGecko source client.
func ProvideCoinGecko(cfg *config.Config, fetcher *xhttp.Fetcher) *coingecko.Client {
	return coingecko.New(cfg.Sources.CoinGeckoBaseURL, fetcher)
}

// ProvideAlternative creates the Fear & Greed source client.
func ProvideAlternative(cfg *config.Config, fetcher *xhttp.Fetcher) *alternative.Client {
	return alternative.New(cfg.Sources.AlternativeBaseURL, fetcher)
}

// ProvideDefiLlama creates the ETF flow source client.
func ProvideDefiLlama(cfg *config.Config, fetcher *xhttp.Fetcher) *defillama.Client {
	return defillama.New(cfg.Sources.DefiLlamaBaseURL, fetcher)
}

// ProvideAssembler creates the snapshot assembler.
func ProvideAssembler(
	cfg *config.Config,
	gecko *coingecko.Client,
	alt *alternative.Client,
	llama *defillama.Client,
	resolver *usecase.TieredResolver,
	logger *applogger.Logger,
	m domrepo.Metrics,
) *usecase.MarketStateAssembler {
	return usecase.NewMarketStateAssembler(gecko, gecko, alt, gecko, llama, resolver, cfg.ETF.Assets, logger, m)
}

// ProvideSignalCache creates the in-memory signal cache.
func ProvideSignalCache() *usecase.SignalCache {
	return usecase.NewSignalCache()
}

// ProvideTrendStore creates the per-consumer previous-metrics store.
func ProvideTrendStore() *usecase.PreviousMetricsStore {
	return usecase.NewPreviousMetricsStore()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + cfg.ClickHouse.Database + ".cross_signals (" +
			"cross_type String, symbol String, exchange String, pairing String, " +
			"fast_ma Float64, slow_ma Float64, detected_at DateTime, scanned_at DateTime" +
			") ENGINE=MergeTree ORDER BY (cross_type, scanned_at, exchange, symbol)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSignalArchive creates the ClickHouse archive sink, or nil when
// ClickHouse is disabled.
func ProvideSignalArchive(chClient *pkgch.Client, cfg *config.Config) domrepo.SignalArchive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+".cross_signals")
}

// ProvideSignalEvents creates the Kafka scan-event publisher, or nil
// when Kafka is disabled.
func ProvideSignalEvents(cfg *config.Config) (domrepo.SignalEvents, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSignalEvents(producer, cfg.Kafka.Topic), nil
}

// ProvideScanner creates the exchange scanner, or nil when disabled.
func ProvideScanner(
	cfg *config.Config,
	fetcher *xhttp.Fetcher,
	cache *usecase.SignalCache,
	archive domrepo.SignalArchive,
	events domrepo.SignalEvents,
	logger *applogger.Logger,
	m domrepo.Metrics,
) (*usecase.ExchangeSignalScanner, error) {
	if !cfg.Scanner.Enabled {
		return nil, nil
	}

	sources, err := exchange.Build(cfg.Scanner.Exchanges, fetcher)
	if err != nil {
		return nil, fmt.Errorf("exchange sources: %w", err)
	}

	opts := []usecase.ScannerOption{
		usecase.WithScanInterval(cfg.Scanner.Interval),
		usecase.WithExchangePause(cfg.Scanner.ExchangePause),
		usecase.WithCooldown(cfg.Scanner.Cooldown),
		usecase.WithMaxSymbols(cfg.Scanner.MaxSymbols),
		usecase.WithMaxConcurrent(cfg.Scanner.MaxConcurrent),
		usecase.WithCandleLimit(cfg.Scanner.CandleLimit),
	}
	if archive != nil {
		opts = append(opts, usecase.WithSignalArchive(archive))
	}
	if events != nil {
		opts = append(opts, usecase.WithSignalEvents(events))
	}
	return usecase.NewExchangeSignalScanner(sources, cache, cfg.Scanner.Watchlist, logger, m, opts...), nil
}

// ProvideResponseCache creates the short-TTL snapshot response cache,
// layered over Redis when configured.
func ProvideResponseCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideHandler creates the Echo API handler.
func ProvideHandler(
	cfg *config.Config,
	logger *applogger.Logger,
	assembler *usecase.MarketStateAssembler,
	signals *usecase.SignalCache,
	trends *usecase.PreviousMetricsStore,
	respCache pkgcache.Service,
) xhttp.Handler {
	return api.NewMarketEchoHandler(logger, assembler, signals, trends, respCache, cfg.Cache.SnapshotTTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	scanner *usecase.ExchangeSignalScanner,
	events domrepo.SignalEvents,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, logger, handler, scanner, events, chClient)
}
