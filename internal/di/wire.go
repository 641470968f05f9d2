//go:build wireinject
// +build wireinject

package di

import (
	"SynapseFund/pkg/config"
	"SynapseFund/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideRand,
		ProvideJobPool,

		// Domain collaborators
		ProvideCatalog,
		ProvideRiskEstimator,
		ProvidePredictor,
		ProvideFundDataSource,

		// Events
		ProvideHub,
		ProvidePipeline,

		// Use cases
		ProvideOrchestrator,
		ProvideExploration,
		ProvideRecommendation,

		// HTTP surface
		ProvideHandlers,
		ProvideApp,
	)
	return &server.App{}, nil
}
