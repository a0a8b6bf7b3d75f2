//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SemiDash/pkg/config"
	"SemiDash/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Upstream clients
		ProvideYahooClient,
		ProvideDartClient,

		// Cache and collaborators
		ProvidePersister,
		ProvideSnapshotCache,
		ProvideStaticMetrics,
		ProvideDemoGenerator,
		ProvideNotifier,

		// Use cases
		ProvideStatementFetcher,
		ProvideFilingDecomposer,
		ProvideRateResolver,
		ProvideRegistry,
		ProvideRefreshLimiter,
		ProvideWarmer,

		// HTTP
		ProvideSnapshotHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
