package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"SynapseFund/internal/domain/models"
	domrepo "SynapseFund/internal/domain/repository"
	"SynapseFund/internal/service/events"
	svcmetrics "SynapseFund/internal/service/metrics"
	"SynapseFund/pkg/logger"
)

const chartWindow = 30

// RecommendationRefreshCycle maintains the single rotating recommended
// fund slot. Each refresh replaces the slot wholesale and issues exactly
// one series fetch; a fetch that resolves after a newer refresh is
// discarded by generation comparison.
type RecommendationRefreshCycle struct {
	catalog  domrepo.Catalog
	funds    domrepo.FundDataSource
	fetchTTL time.Duration
	window   int
	log      *logger.Logger
	emitter  EventEmitter

	rngMu sync.Mutex
	rng   *rand.Rand

	mu         sync.Mutex
	slot       models.RecommendationSlot
	generation uint64
}

// RecommendationOption configures the cycle.
type RecommendationOption func(*RecommendationRefreshCycle)

// WithFetchTimeout bounds each series fetch.
func WithFetchTimeout(d time.Duration) RecommendationOption {
	return func(r *RecommendationRefreshCycle) {
		if d > 0 {
			r.fetchTTL = d
		}
	}
}

// WithChartWindow sets how many NAV points the chart keeps.
func WithChartWindow(n int) RecommendationOption {
	return func(r *RecommendationRefreshCycle) {
		if n > 0 {
			r.window = n
		}
	}
}

// WithRecommendationLogger sets the logger.
func WithRecommendationLogger(log *logger.Logger) RecommendationOption {
	return func(r *RecommendationRefreshCycle) {
		r.log = log
	}
}

// WithRecommendationEmitter sets the outward event hook.
func WithRecommendationEmitter(e EventEmitter) RecommendationOption {
	return func(r *RecommendationRefreshCycle) {
		r.emitter = e
	}
}

// NewRecommendationRefreshCycle creates the cycle. The slot starts
// empty; call Refresh to populate it.
func NewRecommendationRefreshCycle(catalog domrepo.Catalog, funds domrepo.FundDataSource, rng *rand.Rand, opts ...RecommendationOption) *RecommendationRefreshCycle {
	r := &RecommendationRefreshCycle{
		catalog:  catalog,
		funds:    funds,
		fetchTTL: defaultCallTimeout,
		window:   chartWindow,
		rng:      rng,
		slot:     models.RecommendationSlot{LoadState: models.LoadIdle},
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Current returns a copy of the slot.
func (r *RecommendationRefreshCycle) Current() models.RecommendationSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSlot(r.slot)
}

// Refresh rotates to a new fund, excluding the current one, and starts
// its series fetch. The returned slot is in the Loading state; callers
// observe the loaded metrics via Current or the refresh event.
func (r *RecommendationRefreshCycle) Refresh() models.RecommendationSlot {
	r.mu.Lock()
	exclude := r.slot.Fund.Code

	r.rngMu.Lock()
	fund, ok := r.catalog.PickRandom(r.rng, exclude)
	r.rngMu.Unlock()
	if !ok {
		r.mu.Unlock()
		return models.RecommendationSlot{LoadState: models.LoadErrored, Error: "catalog empty"}
	}

	r.generation++
	gen := r.generation
	r.slot = models.RecommendationSlot{
		Fund:       fund,
		Generation: gen,
		LoadState:  models.LoadLoading,
	}
	out := cloneSlot(r.slot)
	r.mu.Unlock()

	svcmetrics.RecommendationRefreshes.Inc()
	go r.fetch(fund, gen)
	return out
}

func (r *RecommendationRefreshCycle) fetch(fund models.Fund, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), r.fetchTTL)
	defer cancel()

	series, err := r.funds.Series(ctx, fund.Code)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Superseded-fetch discard: a newer refresh owns the slot now.
	if gen != r.generation {
		svcmetrics.StaleResultsDiscarded.WithLabelValues("recommendation").Inc()
		return
	}

	if err != nil {
		r.slot.LoadState = models.LoadErrored
		r.slot.Error = err.Error()
		if r.log != nil {
			r.log.Warn("recommendation series fetch failed",
				logger.String("fund", fund.Code),
				logger.Error(err))
		}
		return
	}

	r.slot = deriveSlot(fund, gen, series, r.window)

	if r.emitter != nil {
		r.emitter.Emit(events.EventRecommendationRefreshed, map[string]interface{}{
			"fund_code":      fund.Code,
			"fund_name":      fund.Name,
			"latest_nav":     r.slot.LatestNav,
			"percent_change": r.slot.PercentChange,
		})
	}
}

// deriveSlot computes display metrics from a most-recent-first series:
// latest and previous NAV, absolute and percent change (0 when the
// previous NAV is missing or zero), and a chronological chart window of
// the most recent points.
func deriveSlot(fund models.Fund, gen uint64, series *models.FundSeries, chartWindow int) models.RecommendationSlot {
	slot := models.RecommendationSlot{
		Fund:       fund,
		Generation: gen,
		LoadState:  models.LoadLoaded,
	}

	points := series.Points
	if len(points) > 0 {
		slot.LatestNav = points[0].Nav
	}
	if len(points) > 1 {
		slot.PrevNav = points[1].Nav
	}
	slot.Change = slot.LatestNav - slot.PrevNav
	if slot.PrevNav != 0 {
		slot.PercentChange = slot.Change / slot.PrevNav * 100
	}

	window := points
	if len(window) > chartWindow {
		window = window[:chartWindow]
	}
	slot.Chart = make([]models.NavPoint, len(window))
	for i, p := range window {
		slot.Chart[len(window)-1-i] = p
	}
	return slot
}

func cloneSlot(s models.RecommendationSlot) models.RecommendationSlot {
	out := s
	if s.Chart != nil {
		out.Chart = make([]models.NavPoint, len(s.Chart))
		copy(out.Chart, s.Chart)
	}
	return out
}
