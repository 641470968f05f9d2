package usecase

import (
	"sort"

	"SynapseFund/internal/domain/models"
)

// RankingEngine holds the pure ranking operations over aggregation
// output. Ordering is deterministic: predicted 3-year return descending,
// then fund name ascending, then source ascending.
type RankingEngine struct{}

func NewRankingEngine() *RankingEngine {
	return &RankingEngine{}
}

// TopPerSource returns the k best results of one source.
func (r *RankingEngine) TopPerSource(results []models.PredictionResult, k int) []models.PredictionResult {
	if len(results) == 0 || k <= 0 {
		return nil
	}

	sorted := make([]models.PredictionResult, len(results))
	copy(sorted, results)

	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Returns3YrOrZero(), sorted[j].Returns3YrOrZero()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].FundName < sorted[j].FundName
	})

	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// TopAcrossSources takes each successful source's single best result and
// returns the k best (source, result) pairs. Sources with zero successes
// are discarded.
func (r *RankingEngine) TopAcrossSources(snapshot *models.AggregationSnapshot, k int) []models.RankedEntry {
	if snapshot == nil || k <= 0 {
		return nil
	}

	entries := make([]models.RankedEntry, 0, len(snapshot.Outcomes))
	for source, outcome := range snapshot.Outcomes {
		if !outcome.OK() || len(outcome.Results) == 0 {
			continue
		}
		best := r.TopPerSource(outcome.Results, 1)
		entries = append(entries, models.RankedEntry{Source: source, Result: best[0]})
	}

	sort.Slice(entries, func(i, j int) bool {
		ri, rj := entries[i].Result.Returns3YrOrZero(), entries[j].Result.Returns3YrOrZero()
		if ri != rj {
			return ri > rj
		}
		if entries[i].Result.FundName != entries[j].Result.FundName {
			return entries[i].Result.FundName < entries[j].Result.FundName
		}
		return entries[i].Source < entries[j].Source
	})

	if k > len(entries) {
		k = len(entries)
	}
	return entries[:k]
}
