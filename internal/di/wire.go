//go:build wireinject
// +build wireinject

package di

import (
	"BackScan/pkg/config"
	"BackScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideEngineClient,
		ProvideEngine,
		ProvideCache,
		ProvideCatalog,
		ProvideLimiter,
		ProvidePublisher,

		// Use cases
		ProvideStore,
		ProvideRunner,

		// HTTP surface
		ProvideStreamHub,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
