package fundapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	pcache "SynapseFund/pkg/cache"
)

const seriesBody = `{
	"meta": {"scheme_name": "Quant Small Cap Fund"},
	"data": [
		{"date": "30-08-2024", "nav": "255.1034"},
		{"date": "29-08-2024", "nav": "251.7721"},
		{"date": "28-08-2024", "nav": "not-a-number"}
	]
}`

func newSeriesServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/mf/120828":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(seriesBody))
		case "/mf/search":
			if r.URL.Query().Get("q") == "" {
				t.Errorf("search request missing q parameter")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"schemeCode":120828,"schemeName":"Quant Small Cap Fund"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSeriesParsesNavStrings(t *testing.T) {
	var hits atomic.Int64
	srv := newSeriesServer(t, &hits)
	c := NewClient(srv.URL, 2*time.Second)

	series, err := c.Series(context.Background(), "120828")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if series.SchemeName != "Quant Small Cap Fund" {
		t.Fatalf("wrong scheme name: %s", series.SchemeName)
	}
	if len(series.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series.Points))
	}
	if series.Points[0].Nav != 255.1034 || series.Points[0].Date != "30-08-2024" {
		t.Fatalf("wrong first point: %+v", series.Points[0])
	}
	// Unparseable navs fall back to 0 rather than failing the series.
	if series.Points[2].Nav != 0 {
		t.Fatalf("bad nav should parse as 0, got %v", series.Points[2].Nav)
	}
}

func TestSeriesUnknownCode(t *testing.T) {
	var hits atomic.Int64
	srv := newSeriesServer(t, &hits)
	c := NewClient(srv.URL, 2*time.Second)

	if _, err := c.Series(context.Background(), "000000"); err == nil {
		t.Fatalf("expected error for unknown code")
	}
}

func TestSeriesReadThroughCache(t *testing.T) {
	var hits atomic.Int64
	srv := newSeriesServer(t, &hits)

	mem := pcache.NewMemoryCache()
	defer mem.Close()
	c := NewClient(srv.URL, 2*time.Second, WithCache(mem, time.Minute, time.Minute))

	for i := 0; i < 3; i++ {
		series, err := c.Series(context.Background(), "120828")
		if err != nil {
			t.Fatalf("series %d: %v", i, err)
		}
		if len(series.Points) != 3 {
			t.Fatalf("series %d: wrong point count %d", i, len(series.Points))
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected 1 upstream hit with cache, got %d", got)
	}
}

func TestSearch(t *testing.T) {
	var hits atomic.Int64
	srv := newSeriesServer(t, &hits)
	c := NewClient(srv.URL, 2*time.Second)

	results, err := c.Search(context.Background(), "quant small")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(results))
	}
	if results[0].SchemeCode != 120828 || results[0].SchemeName != "Quant Small Cap Fund" {
		t.Fatalf("wrong hit: %+v", results[0])
	}
}
