package repository

import (
	"context"
	"math/rand"

	"SynapseFund/internal/domain/models"
)

// Predictor performs one outbound prediction call. Implementations must
// not retry internally; retry is an orchestration policy.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionResult, error)
}

// FundDataSource serves fund time series and free-text search.
type FundDataSource interface {
	Series(ctx context.Context, code string) (*models.FundSeries, error)
	Search(ctx context.Context, query string) ([]models.FundSearchHit, error)
}

// Catalog is the static fund universe.
type Catalog interface {
	All() []models.Fund
	ByCategory(category Category) []models.Fund
	Sample(rng *rand.Rand, category Category, n int) []models.Fund
	PickRandom(rng *rand.Rand, excludeCode string) (models.Fund, bool)
	AMCFor(fundName string) string
	Sources() []string
}

// RiskEstimator synthesizes the risk metric for an analyzed card. The
// remote service does not return one.
type RiskEstimator interface {
	Estimate(fund models.Fund, result models.PredictionResult) float64
}

// MetricsRecorder is the engine's view of the metrics backend.
type MetricsRecorder interface {
	RecordPredictionCall(source, outcome string)
	RecordError(kind string)
	RecordCacheLookup(kind string, hit bool)
	RecordLatency(op string, seconds float64)
}
