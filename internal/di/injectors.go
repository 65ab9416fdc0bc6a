//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"pad/internal"
	"pad/internal/controllers"
	"pad/internal/presence"
	"pad/internal/providers"
	"pad/internal/refresh"
	"pad/internal/services"
	"pad/internal/structures"
	"pad/internal/watchdb"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewLocationProvider,
		providers.NewStateStoreProvider,
		providers.NewNotifierProvider,

		refresh.NewZstdCompressor,
		watchdb.NewStore,

		presence.NewNormalizer,
		presence.NewSegmenter,
		presence.NewScorer,
		presence.NewAggregator,
		presence.NewLiveClassifier,
		presence.NewInsightEngine,
		presence.NewVipTracker,

		services.NewPresenceService,
		ProvideEngineStats,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		refresh.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
