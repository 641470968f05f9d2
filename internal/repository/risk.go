package repository

import (
	"math/rand"
	"sync"

	"SynapseFund/internal/domain/models"
	domain "SynapseFund/internal/domain/repository"
)

// UniformRiskEstimator synthesizes a risk value uniformly in [5, 25).
// The prediction service returns no risk figure, so exploration needs a
// stand-in until a real computation replaces it.
type UniformRiskEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformRiskEstimator creates the estimator over a seedable source.
func NewUniformRiskEstimator(rng *rand.Rand) *UniformRiskEstimator {
	return &UniformRiskEstimator{rng: rng}
}

func (e *UniformRiskEstimator) Estimate(_ models.Fund, _ models.PredictionResult) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()*20 + 5
}

var _ domain.RiskEstimator = (*UniformRiskEstimator)(nil)
