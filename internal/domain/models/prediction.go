package models

import "fmt"

// PredictionRequest is the wire body of one prediction call. All numeric
// fields are required by the remote service; FundName and FundCode are
// optional context.
type PredictionRequest struct {
	MinSIP       float64 `json:"min_sip"`
	FundAgeYr    float64 `json:"fund_age_yr"`
	Category     string  `json:"category"`
	SubCategory  string  `json:"sub_category"`
	MinLumpsum   float64 `json:"min_lumpsum"`
	ExpenseRatio float64 `json:"expense_ratio"`
	FundSizeCr   float64 `json:"fund_size_cr"`
	Sortino      float64 `json:"sortino"`
	Alpha        float64 `json:"alpha"`
	SD           float64 `json:"sd"`
	Beta         float64 `json:"beta"`
	Sharpe       float64 `json:"sharpe"`
	RiskLevel    float64 `json:"risk_level"`
	AMCName      string  `json:"amc_name"`
	Rating       float64 `json:"rating"`
	FundName     string  `json:"fund_name,omitempty"`
	FundCode     string  `json:"fund_code,omitempty"`
}

// DefaultPredictionRequest returns the baseline parameter set used for
// background analysis when the user supplies nothing.
func DefaultPredictionRequest() PredictionRequest {
	return PredictionRequest{
		MinSIP:       5000,
		FundAgeYr:    5,
		MinLumpsum:   10000,
		ExpenseRatio: 1.5,
		FundSizeCr:   2000,
		Sortino:      0.5,
		Alpha:        2.0,
		SD:           10.0,
		Beta:         1.0,
		Sharpe:       0.8,
		RiskLevel:    3,
		Rating:       4.5,
	}
}

// PredictionResult carries the predicted return percentages. A nil field
// means the service omitted it, which is distinct from zero.
type PredictionResult struct {
	FundName   string   `json:"fund_name,omitempty"`
	Returns1Yr *float64 `json:"returns_1yr"`
	Returns3Yr *float64 `json:"returns_3yr"`
	Returns5Yr *float64 `json:"returns_5yr"`
}

// Returns3YrOrZero maps an absent 3-year return to 0 for ranking.
func (r PredictionResult) Returns3YrOrZero() float64 {
	if r.Returns3Yr == nil {
		return 0
	}
	return *r.Returns3Yr
}

// ErrorKind classifies a failed prediction call.
type ErrorKind string

const (
	ErrKindNetwork ErrorKind = "network"
	ErrKindParse   ErrorKind = "parse"
	ErrKindService ErrorKind = "service"
	ErrKindEmpty   ErrorKind = "empty"
)

// PredictionError is the single error type a prediction call surfaces.
type PredictionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PredictionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("prediction %s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("prediction %s error", e.Kind)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// NewPredictionError builds a classified prediction error.
func NewPredictionError(kind ErrorKind, message string, err error) *PredictionError {
	return &PredictionError{Kind: kind, Message: message, Err: err}
}

// SourceOutcome is the per-source result of one aggregation run. Exactly
// one of Results or Failure holds.
type SourceOutcome struct {
	Source  string             `json:"source"`
	Results []PredictionResult `json:"results,omitempty"`
	Failure string             `json:"failure,omitempty"`
}

// OK reports whether the source resolved successfully.
func (o SourceOutcome) OK() bool {
	return o.Failure == ""
}

// AggregationSnapshot is the immutable output of one fan-out run.
type AggregationSnapshot struct {
	Category   string                   `json:"category"`
	Generation uint64                   `json:"generation"`
	Outcomes   map[string]SourceOutcome `json:"outcomes"`
}

// RankedEntry pairs a source with its best result for cross-source ranking.
type RankedEntry struct {
	Source string           `json:"source"`
	Result PredictionResult `json:"result"`
}
