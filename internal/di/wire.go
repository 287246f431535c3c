//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Upstream clients
		ProvideFetcher,
		ProvideCoinGecko,
		ProvideAlternative,
		ProvideDefiLlama,

		// Persistence and sinks
		ProvideFlowStore,
		ProvideClickHouseClient,
		ProvideSignalArchive,
		ProvideSignalEvents,
		ProvideResponseCache,

		// Use cases
		ProvideResolver,
		ProvideAssembler,
		ProvideSignalCache,
		ProvideTrendStore,
		ProvideScanner,

		// Transport
		ProvideHandler,
		ProvideApp,
	)
	return nil, nil
}
