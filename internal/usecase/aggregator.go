package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"SynapseFund/internal/domain/models"
	domrepo "SynapseFund/internal/domain/repository"
	svccache "SynapseFund/internal/service/cache"
	"SynapseFund/internal/service/events"
	svcmetrics "SynapseFund/internal/service/metrics"
	"SynapseFund/internal/service/ratelimit"
	"SynapseFund/pkg/logger"
	"SynapseFund/pkg/queue"
)

// EventEmitter is the engine's outward notification hook.
type EventEmitter interface {
	Emit(eventType string, payload interface{})
}

const (
	defaultFanoutWorkers = 8
	defaultPerSourceTopK = 3
	defaultCallTimeout   = 10 * time.Second
)

// AggregationOrchestrator fans one prediction request out across all
// configured sources and collects a per-source result-or-failure map.
// A source failing never aborts the run; the operation completes only
// after every source has settled.
type AggregationOrchestrator struct {
	predictor   domrepo.Predictor
	ranking     *RankingEngine
	limiter     *ratelimit.Limiter
	sources     []string
	workers     int
	topK        int
	callTimeout time.Duration

	snapshots   *svccache.TTLCache
	snapshotTTL time.Duration

	log     *logger.Logger
	emitter EventEmitter

	generation atomic.Uint64

	mu         sync.Mutex
	lastStored map[string]uint64
}

// OrchestratorOption configures the orchestrator.
type OrchestratorOption func(*AggregationOrchestrator)

// WithFanoutWorkers bounds the number of in-flight prediction calls.
func WithFanoutWorkers(n int) OrchestratorOption {
	return func(o *AggregationOrchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithSnapshotTTL sets how long a category snapshot is served from cache.
func WithSnapshotTTL(ttl time.Duration) OrchestratorOption {
	return func(o *AggregationOrchestrator) {
		if ttl > 0 {
			o.snapshotTTL = ttl
		}
	}
}

// WithCallTimeout bounds each outbound prediction call.
func WithCallTimeout(d time.Duration) OrchestratorOption {
	return func(o *AggregationOrchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithRateLimiter installs a per-source limiter consulted before each call.
func WithRateLimiter(l *ratelimit.Limiter) OrchestratorOption {
	return func(o *AggregationOrchestrator) {
		o.limiter = l
	}
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(log *logger.Logger) OrchestratorOption {
	return func(o *AggregationOrchestrator) {
		o.log = log
	}
}

// WithOrchestratorEmitter sets the outward event hook.
func WithOrchestratorEmitter(e EventEmitter) OrchestratorOption {
	return func(o *AggregationOrchestrator) {
		o.emitter = e
	}
}

// NewAggregationOrchestrator creates the orchestrator over a fixed
// source set.
func NewAggregationOrchestrator(predictor domrepo.Predictor, ranking *RankingEngine, sources []string, opts ...OrchestratorOption) *AggregationOrchestrator {
	o := &AggregationOrchestrator{
		predictor:   predictor,
		ranking:     ranking,
		sources:     sources,
		workers:     defaultFanoutWorkers,
		topK:        defaultPerSourceTopK,
		callTimeout: defaultCallTimeout,
		snapshots:   svccache.NewTTLCache(),
		snapshotTTL: 2 * time.Minute,
		lastStored:  make(map[string]uint64),
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Aggregate runs one full fan-out for a category and returns the
// settled snapshot. Per-source failures are recorded in the snapshot,
// never raised.
func (o *AggregationOrchestrator) Aggregate(ctx context.Context, category domrepo.Category) *models.AggregationSnapshot {
	gen := o.generation.Add(1)
	start := time.Now()

	template := models.DefaultPredictionRequest()
	template.Category = category.String()
	template.SubCategory = category.DefaultSubCategory()

	type sourceResult struct {
		source  string
		outcome models.SourceOutcome
	}

	resultCh := make(chan sourceResult, len(o.sources))

	pool := queue.NewPool(
		queue.WithWorkers(o.workers),
		queue.WithBuffer(len(o.sources)),
		queue.WithLogger(o.log),
	)

	for _, source := range o.sources {
		source := source
		req := template
		req.AMCName = source

		err := pool.Submit(func(jobCtx context.Context) {
			resultCh <- sourceResult{source: source, outcome: o.callSource(ctx, source, req)}
		})
		if err != nil {
			resultCh <- sourceResult{source: source, outcome: models.SourceOutcome{
				Source:  source,
				Failure: "fan-out queue unavailable",
			}}
		}
	}

	// Settle-all: every source reports exactly once.
	outcomes := make(map[string]models.SourceOutcome, len(o.sources))
	for range o.sources {
		r := <-resultCh
		outcomes[r.source] = r.outcome
	}
	_ = pool.Close()

	snapshot := &models.AggregationSnapshot{
		Category:   category.String(),
		Generation: gen,
		Outcomes:   outcomes,
	}

	svcmetrics.SnapshotBuildDuration.WithLabelValues(category.String()).Observe(time.Since(start).Seconds())
	if o.log != nil {
		o.log.Info("aggregation run settled",
			logger.String("category", category.String()),
			logger.Int("sources", len(o.sources)),
			logger.Int64("generation", int64(gen)),
			logger.Duration("took", time.Since(start)))
	}

	o.store(category, snapshot)
	return snapshot
}

// callSource performs one rate-limited, timeout-bounded prediction call
// and reduces the response to the per-source top results.
func (o *AggregationOrchestrator) callSource(ctx context.Context, source string, req models.PredictionRequest) models.SourceOutcome {
	if o.limiter != nil && !o.limiter.Wait(source, time.Now().Add(o.callTimeout)) {
		return models.SourceOutcome{Source: source, Failure: "rate limited"}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	results, err := o.predictor.Predict(callCtx, req)
	if err != nil {
		var perr *models.PredictionError
		if errors.As(err, &perr) {
			return models.SourceOutcome{Source: source, Failure: perr.Error()}
		}
		return models.SourceOutcome{Source: source, Failure: err.Error()}
	}

	return models.SourceOutcome{
		Source:  source,
		Results: o.ranking.TopPerSource(results, o.topK),
	}
}

// store caches the snapshot unless a newer generation for the same
// category has already landed.
func (o *AggregationOrchestrator) store(category domrepo.Category, snapshot *models.AggregationSnapshot) {
	o.mu.Lock()
	if snapshot.Generation < o.lastStored[category.String()] {
		o.mu.Unlock()
		svcmetrics.StaleResultsDiscarded.WithLabelValues("aggregator").Inc()
		return
	}
	o.lastStored[category.String()] = snapshot.Generation
	o.mu.Unlock()

	o.snapshots.Set(category.String(), snapshot, o.snapshotTTL)

	if o.emitter != nil {
		o.emitter.Emit(events.EventSnapshotReady, map[string]interface{}{
			"category":   category.String(),
			"generation": snapshot.Generation,
		})
	}
}

// TopPredictions serves the cached snapshot for a category, running a
// fresh aggregation on miss, and returns the cross-source top-k.
func (o *AggregationOrchestrator) TopPredictions(ctx context.Context, category domrepo.Category, k int) (*models.AggregationSnapshot, []models.RankedEntry) {
	if v, ok := o.snapshots.Get(category.String()); ok {
		snapshot := v.(*models.AggregationSnapshot)
		return snapshot, o.ranking.TopAcrossSources(snapshot, k)
	}

	snapshot := o.Aggregate(ctx, category)
	return snapshot, o.ranking.TopAcrossSources(snapshot, k)
}

// Invalidate drops the cached snapshot for a category.
func (o *AggregationOrchestrator) Invalidate(category domrepo.Category) {
	o.snapshots.Delete(category.String())
}
