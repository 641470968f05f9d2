package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SynapseFund/internal/domain/models"
	domrepo "SynapseFund/internal/domain/repository"
)

// fakePredictor answers per AMC name from a fixed script.
type fakePredictor struct {
	mu      sync.Mutex
	results map[string][]models.PredictionResult
	errs    map[string]error
	calls   atomic.Int64
}

func (f *fakePredictor) Predict(_ context.Context, req models.PredictionRequest) ([]models.PredictionResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[req.AMCName]; ok {
		return nil, err
	}
	return f.results[req.AMCName], nil
}

func TestAggregatePartialFailure(t *testing.T) {
	pred := &fakePredictor{
		results: map[string][]models.PredictionResult{
			"A": {{FundName: "a", Returns3Yr: f64(12.0)}},
			"C": {{FundName: "c", Returns3Yr: f64(20.0)}},
		},
		errs: map[string]error{
			"B": models.NewPredictionError(models.ErrKindNetwork, "boom", nil),
		},
	}

	ranking := NewRankingEngine()
	o := NewAggregationOrchestrator(pred, ranking, []string{"A", "B", "C"},
		WithFanoutWorkers(2))

	snap := o.Aggregate(context.Background(), domrepo.CategoryEquity)

	if len(snap.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(snap.Outcomes))
	}
	if snap.Outcomes["A"].Failure != "" || snap.Outcomes["C"].Failure != "" {
		t.Fatalf("A and C should succeed: %+v", snap.Outcomes)
	}
	if snap.Outcomes["B"].Failure == "" {
		t.Fatalf("B should record a failure")
	}

	top := ranking.TopAcrossSources(snap, 5)
	if len(top) != 2 {
		t.Fatalf("expected 2 ranked entries, got %d", len(top))
	}
	if top[0].Source != "C" || top[0].Result.Returns3YrOrZero() != 20.0 {
		t.Fatalf("expected C/20.0 first, got %s/%v", top[0].Source, top[0].Result.Returns3YrOrZero())
	}
	if top[1].Source != "A" || top[1].Result.Returns3YrOrZero() != 12.0 {
		t.Fatalf("expected A/12.0 second, got %s/%v", top[1].Source, top[1].Result.Returns3YrOrZero())
	}
}

func TestAggregateSettlesEverySource(t *testing.T) {
	sources := make([]string, 0, 20)
	errs := make(map[string]error)
	for i := 0; i < 20; i++ {
		s := fmt.Sprintf("S%02d", i)
		sources = append(sources, s)
		if i%2 == 0 {
			errs[s] = models.NewPredictionError(models.ErrKindService, "rejected", nil)
		}
	}

	pred := &fakePredictor{results: map[string][]models.PredictionResult{}, errs: errs}
	o := NewAggregationOrchestrator(pred, NewRankingEngine(), sources, WithFanoutWorkers(4))

	snap := o.Aggregate(context.Background(), domrepo.CategoryDebt)

	if len(snap.Outcomes) != len(sources) {
		t.Fatalf("expected %d outcomes, got %d", len(sources), len(snap.Outcomes))
	}
	if got := pred.calls.Load(); got != int64(len(sources)) {
		t.Fatalf("expected one call per source, got %d", got)
	}
	for s := range errs {
		if snap.Outcomes[s].Failure == "" {
			t.Fatalf("source %s should have failed", s)
		}
	}
}

// meteredPredictor tracks the peak number of in-flight calls.
type meteredPredictor struct {
	inflight atomic.Int64
	peak     atomic.Int64
}

func (p *meteredPredictor) Predict(context.Context, models.PredictionRequest) ([]models.PredictionResult, error) {
	cur := p.inflight.Add(1)
	defer p.inflight.Add(-1)
	for {
		peak := p.peak.Load()
		if cur <= peak || p.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return nil, models.NewPredictionError(models.ErrKindEmpty, "no data", nil)
}

func TestAggregateBoundsInFlightCalls(t *testing.T) {
	sources := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		sources = append(sources, fmt.Sprintf("S%02d", i))
	}

	pred := &meteredPredictor{}
	o := NewAggregationOrchestrator(pred, NewRankingEngine(), sources, WithFanoutWorkers(4))

	snap := o.Aggregate(context.Background(), domrepo.CategoryEquity)

	if len(snap.Outcomes) != len(sources) {
		t.Fatalf("expected %d outcomes, got %d", len(sources), len(snap.Outcomes))
	}
	if got := pred.peak.Load(); got > 4 {
		t.Fatalf("in-flight calls exceeded the worker bound: %d", got)
	}
	if got := pred.peak.Load(); got < 2 {
		t.Fatalf("fan-out never ran concurrently: peak %d", got)
	}
}

func TestAggregateTruncatesPerSourceTopK(t *testing.T) {
	many := make([]models.PredictionResult, 0, 6)
	for i := 0; i < 6; i++ {
		many = append(many, models.PredictionResult{
			FundName:   fmt.Sprintf("f%d", i),
			Returns3Yr: f64(float64(i)),
		})
	}

	pred := &fakePredictor{results: map[string][]models.PredictionResult{"A": many}}
	o := NewAggregationOrchestrator(pred, NewRankingEngine(), []string{"A"})

	snap := o.Aggregate(context.Background(), domrepo.CategoryEquity)
	got := snap.Outcomes["A"].Results
	if len(got) != 3 {
		t.Fatalf("expected per-source top 3, got %d", len(got))
	}
	if got[0].FundName != "f5" {
		t.Fatalf("expected best result first, got %s", got[0].FundName)
	}
}

func TestAggregateGenerationsIncrease(t *testing.T) {
	pred := &fakePredictor{results: map[string][]models.PredictionResult{}}
	o := NewAggregationOrchestrator(pred, NewRankingEngine(), []string{"A"})

	first := o.Aggregate(context.Background(), domrepo.CategoryEquity)
	second := o.Aggregate(context.Background(), domrepo.CategoryEquity)

	if second.Generation <= first.Generation {
		t.Fatalf("generation must increase: %d then %d", first.Generation, second.Generation)
	}
}

func TestTopPredictionsServesCachedSnapshot(t *testing.T) {
	pred := &fakePredictor{
		results: map[string][]models.PredictionResult{
			"A": {{FundName: "a", Returns3Yr: f64(7)}},
		},
	}
	o := NewAggregationOrchestrator(pred, NewRankingEngine(), []string{"A"})

	snap1, _ := o.TopPredictions(context.Background(), domrepo.CategoryEquity, 5)
	snap2, _ := o.TopPredictions(context.Background(), domrepo.CategoryEquity, 5)

	if snap1.Generation != snap2.Generation {
		t.Fatalf("second call should hit the snapshot cache: %d vs %d", snap1.Generation, snap2.Generation)
	}
	if got := pred.calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}

	o.Invalidate(domrepo.CategoryEquity)
	snap3, _ := o.TopPredictions(context.Background(), domrepo.CategoryEquity, 5)
	if snap3.Generation == snap1.Generation {
		t.Fatalf("invalidate should force a fresh aggregation")
	}
}
