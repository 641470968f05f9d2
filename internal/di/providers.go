package di

import (
	"fmt"
	"math/rand"
	"time"

	"SynapseFund/internal/domain/repository"
	"SynapseFund/internal/handler/api"
	mid "SynapseFund/internal/middleware"
	internalrepo "SynapseFund/internal/repository"
	"SynapseFund/internal/service/events"
	"SynapseFund/internal/service/fundapi"
	svcmetrics "SynapseFund/internal/service/metrics"
	"SynapseFund/internal/service/predictor"
	"SynapseFund/internal/service/ratelimit"
	"SynapseFund/internal/usecase"
	pkgcache "SynapseFund/pkg/cache"
	"SynapseFund/pkg/config"
	"SynapseFund/pkg/logger"
	"SynapseFund/pkg/metrics"
	"SynapseFund/pkg/queue"
	"SynapseFund/pkg/server"
	"SynapseFund/pkg/util"
)

// ProvideLogger creates the application logger with the error collector
// that feeds the health endpoint.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}

	l, err := logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(&logger.CollectionConfig{MaxEntries: 100, MaxAge: time.Hour})
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder and registers
// the engine collectors.
func ProvideMetrics() repository.MetricsRecorder {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideCache creates the fund API response cache. Redis-backed and
// layered when enabled, in-memory otherwise.
func ProvideCache(cfg *config.Config, l *logger.Logger) pkgcache.Service {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache()
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		l.Warn("redis unavailable, using in-memory cache", logger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	return pkgcache.NewLayeredCache(redisCache)
}

// ProvideCatalog creates the static fund catalog.
func ProvideCatalog(cfg *config.Config) repository.Catalog {
	return internalrepo.NewStaticCatalog(cfg.Predictor.Sources)
}

// ProvideRand creates the engine's seedable randomness source. The
// returned Rand is shared by the exploration machine, the recommendation
// cycle and the risk estimator, so it is built over a locked source.
func ProvideRand() *rand.Rand {
	return util.NewLockedRand(time.Now().UnixNano())
}

// ProvideRiskEstimator creates the default synthetic risk estimator.
func ProvideRiskEstimator(rng *rand.Rand) repository.RiskEstimator {
	return internalrepo.NewUniformRiskEstimator(rng)
}

// ProvidePredictor creates the prediction service client.
func ProvidePredictor(cfg *config.Config, l *logger.Logger, m repository.MetricsRecorder) repository.Predictor {
	return predictor.NewClient(cfg.Predictor.URL, cfg.Predictor.Timeout,
		predictor.WithLogger(l),
		predictor.WithMetrics(m),
	)
}

// ProvideFundDataSource creates the fund series/search client.
func ProvideFundDataSource(cfg *config.Config, l *logger.Logger, m repository.MetricsRecorder, cache pkgcache.Service) repository.FundDataSource {
	return fundapi.NewClient(cfg.FundAPI.URL, cfg.FundAPI.Timeout,
		fundapi.WithCache(cache, cfg.FundAPI.SeriesTTL, cfg.FundAPI.SearchTTL),
		fundapi.WithLogger(l),
		fundapi.WithMetrics(m),
	)
}

// ProvideHub creates the WebSocket event hub.
func ProvideHub(l *logger.Logger) *events.Hub {
	return events.NewHub(l)
}

// ProvidePipeline creates the event pipeline in front of the hub.
func ProvidePipeline(cfg *config.Config, hub *events.Hub, m repository.MetricsRecorder) *mid.EventPipeline {
	return mid.NewEventPipeline(hub, m,
		mid.WithMaxRPS(cfg.Events.MaxRPS),
		mid.WithBufferSize(cfg.Events.BufferSize),
	)
}

// ProvideJobPool creates the shared background job pool used by
// exploration pre-fetch.
func ProvideJobPool(cfg *config.Config, l *logger.Logger) *queue.Pool {
	return queue.NewPool(
		queue.WithWorkers(cfg.Predictor.FanoutWorkers),
		queue.WithBuffer(cfg.Events.BufferSize),
		queue.WithLogger(l),
	)
}

// ProvideOrchestrator creates the aggregation orchestrator.
func ProvideOrchestrator(cfg *config.Config, p repository.Predictor, catalog repository.Catalog, l *logger.Logger, pipe *mid.EventPipeline) *usecase.AggregationOrchestrator {
	limiter := ratelimit.New(cfg.Predictor.SourceRPS*2, cfg.Predictor.SourceRPS)
	return usecase.NewAggregationOrchestrator(p, usecase.NewRankingEngine(), catalog.Sources(),
		usecase.WithFanoutWorkers(cfg.Predictor.FanoutWorkers),
		usecase.WithSnapshotTTL(cfg.Predictor.SnapshotTTL),
		usecase.WithCallTimeout(cfg.Predictor.Timeout),
		usecase.WithRateLimiter(limiter),
		usecase.WithOrchestratorLogger(l),
		usecase.WithOrchestratorEmitter(pipe),
	)
}

// ProvideExploration creates the exploration state machine.
func ProvideExploration(cfg *config.Config, catalog repository.Catalog, p repository.Predictor, risk repository.RiskEstimator, jobs *queue.Pool, rng *rand.Rand, l *logger.Logger, pipe *mid.EventPipeline) *usecase.ExplorationStateMachine {
	return usecase.NewExplorationStateMachine(catalog, p, risk, jobs, rng,
		usecase.WithPoolSize(cfg.Exploration.PoolSize),
		usecase.WithAnalyzeTimeout(cfg.Predictor.Timeout),
		usecase.WithExplorationLogger(l),
		usecase.WithExplorationEmitter(pipe),
	)
}

// ProvideRecommendation creates the recommendation refresh cycle.
func ProvideRecommendation(cfg *config.Config, catalog repository.Catalog, funds repository.FundDataSource, rng *rand.Rand, l *logger.Logger, pipe *mid.EventPipeline) *usecase.RecommendationRefreshCycle {
	return usecase.NewRecommendationRefreshCycle(catalog, funds, rng,
		usecase.WithFetchTimeout(cfg.FundAPI.Timeout),
		usecase.WithChartWindow(cfg.FundAPI.ChartPoints),
		usecase.WithRecommendationLogger(l),
		usecase.WithRecommendationEmitter(pipe),
	)
}

// ProvideHandlers bundles every route group into one registrar.
func ProvideHandlers(
	cfg *config.Config,
	l *logger.Logger,
	orchestrator *usecase.AggregationOrchestrator,
	machine *usecase.ExplorationStateMachine,
	cycle *usecase.RecommendationRefreshCycle,
	p repository.Predictor,
	funds repository.FundDataSource,
	cache pkgcache.Service,
	hub *events.Hub,
) *server.Handlers {
	return server.NewHandlers(
		api.NewPredictionsHandler(l, orchestrator, p),
		api.NewExplorationHandler(l, machine),
		api.NewRecommendationHandler(l, cycle),
		api.NewFundsHandler(l, funds),
		api.NewHealthHandler(l, cache, hub),
		api.NewWSHandler(l, hub),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handlers *server.Handlers,
	pipe *mid.EventPipeline,
	hub *events.Hub,
	jobs *queue.Pool,
	cache pkgcache.Service,
	cycle *usecase.RecommendationRefreshCycle,
	machine *usecase.ExplorationStateMachine,
) *server.App {
	return server.New(cfg, l, handlers, pipe, hub, jobs, cache, cycle, machine)
}
