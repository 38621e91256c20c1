//go:build wireinject
// +build wireinject

package di

import (
	"StockSage/pkg/config"
	"StockSage/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideStores,
		ProvideCache,
		ProvidePublisher,
		ProvideLimiter,

		// External providers
		ProvideMarketProvider,
		ProvideIndexProvider,
		ProvideGenerator,
		ProvideParser,

		// Use cases
		ProvideSyncService,
		ProvideScreenService,
		ProvideAnalyzeService,
		ProvideQueryService,
		ProvideIndexRefresher,
		ProvideScheduler,

		// HTTP
		ProvideMarketHandler,
		ProvideStrategiesHandler,
		ProvideAnalysisHandler,
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
