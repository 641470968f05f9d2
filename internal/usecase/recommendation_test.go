package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"SynapseFund/internal/domain/models"
)

// gatedFundSource serves scripted series and can hold calls open.
type gatedFundSource struct {
	mu      sync.Mutex
	series  map[string]*models.FundSeries
	holds   map[string]chan struct{}
	fetched []string
}

func (g *gatedFundSource) Series(ctx context.Context, code string) (*models.FundSeries, error) {
	g.mu.Lock()
	g.fetched = append(g.fetched, code)
	hold := g.holds[code]
	g.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.series[code]
	if !ok {
		return nil, fmt.Errorf("no series for %s", code)
	}
	return s, nil
}

func (g *gatedFundSource) Search(context.Context, string) ([]models.FundSearchHit, error) {
	return nil, nil
}

func seriesOf(name string, navs ...float64) *models.FundSeries {
	points := make([]models.NavPoint, len(navs))
	for i, v := range navs {
		points[i] = models.NavPoint{Date: fmt.Sprintf("%02d-01-2024", len(navs)-i), Nav: v}
	}
	return &models.FundSeries{SchemeName: name, Points: points}
}

func waitSlot(t *testing.T, r *RecommendationRefreshCycle, cond func(models.RecommendationSlot) bool, msg string) models.RecommendationSlot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := r.Current()
		if cond(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
	return models.RecommendationSlot{}
}

func TestDeriveSlotMetrics(t *testing.T) {
	fund := models.Fund{Code: "1", Name: "FundA"}
	slot := deriveSlot(fund, 1, seriesOf("FundA", 105.0, 100.0, 98.0), chartWindow)

	if slot.LoadState != models.LoadLoaded {
		t.Fatalf("expected loaded state, got %s", slot.LoadState)
	}
	if slot.LatestNav != 105.0 || slot.PrevNav != 100.0 {
		t.Fatalf("wrong navs: latest=%v prev=%v", slot.LatestNav, slot.PrevNav)
	}
	if slot.Change != 5.0 {
		t.Fatalf("wrong change: %v", slot.Change)
	}
	if slot.PercentChange != 5.0 {
		t.Fatalf("wrong percent change: %v", slot.PercentChange)
	}
}

func TestDeriveSlotZeroPrevNav(t *testing.T) {
	slot := deriveSlot(models.Fund{Code: "1"}, 1, seriesOf("F", 105.0, 0), chartWindow)
	if slot.PercentChange != 0 {
		t.Fatalf("percent change must be 0 with zero previous nav, got %v", slot.PercentChange)
	}

	single := deriveSlot(models.Fund{Code: "1"}, 1, seriesOf("F", 105.0), chartWindow)
	if single.PrevNav != 0 || single.PercentChange != 0 {
		t.Fatalf("single-point series: %+v", single)
	}
}

func TestDeriveSlotChartWindow(t *testing.T) {
	navs := make([]float64, 40)
	for i := range navs {
		navs[i] = float64(100 + i) // most recent first: 100, 101, ...
	}
	slot := deriveSlot(models.Fund{Code: "1"}, 1, seriesOf("F", navs...), chartWindow)

	if len(slot.Chart) != 30 {
		t.Fatalf("chart should keep 30 points, got %d", len(slot.Chart))
	}
	// Chronological order: oldest of the window first, latest last.
	if slot.Chart[0].Nav != 129 || slot.Chart[29].Nav != 100 {
		t.Fatalf("chart not reversed: first=%v last=%v", slot.Chart[0].Nav, slot.Chart[29].Nav)
	}
	for i := 1; i < len(slot.Chart); i++ {
		if slot.Chart[i].Nav > slot.Chart[i-1].Nav {
			t.Fatalf("chart out of chronological order at %d", i)
		}
	}
}

func TestRefreshExcludesCurrentFund(t *testing.T) {
	src := &gatedFundSource{series: map[string]*models.FundSeries{
		"1": seriesOf("FundA", 10, 9),
		"2": seriesOf("FundB", 20, 19),
		"3": seriesOf("FundC", 30, 29),
	}}
	r := NewRecommendationRefreshCycle(newTestCatalog(), src, rand.New(rand.NewSource(1)))

	first := r.Refresh()
	if first.LoadState != models.LoadLoading {
		t.Fatalf("refresh should return a loading slot, got %s", first.LoadState)
	}
	waitSlot(t, r, func(s models.RecommendationSlot) bool {
		return s.LoadState == models.LoadLoaded
	}, "first fetch loaded")

	for i := 0; i < 10; i++ {
		prev := r.Current().Fund.Code
		next := r.Refresh()
		if next.Fund.Code == prev {
			t.Fatalf("refresh %d picked the current fund %s again", i, prev)
		}
		waitSlot(t, r, func(s models.RecommendationSlot) bool {
			return s.LoadState == models.LoadLoaded
		}, "fetch loaded")
	}
}

func TestRefreshSupersededFetchDiscarded(t *testing.T) {
	hold := make(chan struct{})
	src := &gatedFundSource{
		series: map[string]*models.FundSeries{
			"1": seriesOf("FundA", 10, 9),
			"2": seriesOf("FundB", 20, 19),
			"3": seriesOf("FundC", 30, 29),
		},
		holds: map[string]chan struct{}{"1": hold},
	}
	// testCatalog.PickRandom is deterministic: first fund not excluded.
	r := NewRecommendationRefreshCycle(newTestCatalog(), src, rand.New(rand.NewSource(1)))

	first := r.Refresh() // fund 1, fetch held open
	if first.Fund.Code != "1" {
		t.Fatalf("expected fund 1 first, got %s", first.Fund.Code)
	}

	second := r.Refresh() // fund 2, completes immediately
	if second.Fund.Code != "2" {
		t.Fatalf("expected fund 2 second, got %s", second.Fund.Code)
	}
	loaded := waitSlot(t, r, func(s models.RecommendationSlot) bool {
		return s.LoadState == models.LoadLoaded
	}, "second fetch loaded")
	if loaded.Fund.Code != "2" || loaded.LatestNav != 20 {
		t.Fatalf("expected fund 2 metrics, got %+v", loaded)
	}

	// Release the superseded fetch; its result must not clobber the slot.
	close(hold)
	time.Sleep(50 * time.Millisecond)

	final := r.Current()
	if final.Fund.Code != "2" || final.LatestNav != 20 || final.LoadState != models.LoadLoaded {
		t.Fatalf("stale fetch overwrote the slot: %+v", final)
	}
}

func TestRefreshFetchErrorMarksSlot(t *testing.T) {
	src := &gatedFundSource{series: map[string]*models.FundSeries{}}
	r := NewRecommendationRefreshCycle(newTestCatalog(), src, rand.New(rand.NewSource(1)))

	r.Refresh()
	errored := waitSlot(t, r, func(s models.RecommendationSlot) bool {
		return s.LoadState == models.LoadErrored
	}, "fetch errored")
	if errored.Error == "" {
		t.Fatalf("errored slot should carry a message")
	}
}
