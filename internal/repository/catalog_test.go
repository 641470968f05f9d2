package repository

import (
	"math/rand"
	"testing"

	domain "SynapseFund/internal/domain/repository"
)

func TestCatalogHoldsFullUniverse(t *testing.T) {
	c := NewStaticCatalog(nil)

	funds := c.All()
	if len(funds) != 25 {
		t.Fatalf("expected 25 funds, got %d", len(funds))
	}

	seen := make(map[string]bool, len(funds))
	for _, f := range funds {
		if f.Code == "" || f.Name == "" {
			t.Fatalf("incomplete fund entry: %+v", f)
		}
		if seen[f.Code] {
			t.Fatalf("duplicate fund code %s", f.Code)
		}
		seen[f.Code] = true
	}
}

func TestCatalogDefaultSources(t *testing.T) {
	c := NewStaticCatalog(nil)
	if got := len(c.Sources()); got != 39 {
		t.Fatalf("expected 39 default sources, got %d", got)
	}

	override := NewStaticCatalog([]string{"A", "B"})
	if got := c.Sources(); len(got) == 2 {
		t.Fatalf("default catalog leaked the override")
	}
	if got := override.Sources(); len(got) != 2 || got[0] != "A" {
		t.Fatalf("source override not applied: %v", got)
	}
}

func TestSampleDistinct(t *testing.T) {
	c := NewStaticCatalog(nil)
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		sample := c.Sample(rng, domain.CategoryEquity, 3)
		if len(sample) != 3 {
			t.Fatalf("expected 3 funds, got %d", len(sample))
		}
		seen := make(map[string]bool, 3)
		for _, f := range sample {
			if seen[f.Code] {
				t.Fatalf("run %d: duplicate fund %s in sample", run, f.Code)
			}
			seen[f.Code] = true
		}
	}
}

func TestSampleCapsAtPoolSize(t *testing.T) {
	c := NewStaticCatalog(nil)
	sample := c.Sample(rand.New(rand.NewSource(1)), domain.CategoryEquity, 100)
	if len(sample) != 25 {
		t.Fatalf("oversized request should cap at the pool, got %d", len(sample))
	}
}

func TestByCategoryFallsBackToUniverse(t *testing.T) {
	c := NewStaticCatalog(nil)

	if got := len(c.ByCategory(domain.CategoryEquity)); got != 25 {
		t.Fatalf("expected 25 equity funds, got %d", got)
	}
	// No debt funds in the built-in universe; exploration still needs
	// candidates.
	if got := len(c.ByCategory(domain.CategoryDebt)); got != 25 {
		t.Fatalf("empty category should fall back to the universe, got %d", got)
	}
}

func TestPickRandomExcludes(t *testing.T) {
	c := NewStaticCatalog(nil)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		f, ok := c.PickRandom(rng, "120828")
		if !ok {
			t.Fatalf("pick %d failed", i)
		}
		if f.Code == "120828" {
			t.Fatalf("pick %d returned the excluded fund", i)
		}
	}
}

func TestAMCForMapping(t *testing.T) {
	c := NewStaticCatalog(nil)

	if got := c.AMCFor("Quant Small Cap Fund"); got != "Quant Mutual Fund" {
		t.Fatalf("wrong AMC: %s", got)
	}
	if got := c.AMCFor("Parag Parikh Flexi Cap"); got != "PPFAS Mutual Fund" {
		t.Fatalf("wrong AMC: %s", got)
	}
	if got := c.AMCFor("Some Unknown Fund"); got != "HDFC Mutual Fund" {
		t.Fatalf("unknown fund should fall back, got %s", got)
	}
}

func TestEveryCatalogFundHasAnAMC(t *testing.T) {
	c := NewStaticCatalog(nil)
	for _, f := range c.All() {
		if _, ok := fundToAMC[f.Name]; !ok {
			t.Fatalf("fund %q missing from the AMC map", f.Name)
		}
	}
}
