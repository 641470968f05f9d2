package models

// PredictBody is the request body of the single-fund predict endpoint.
// Defaults mirror the baseline parameter set; category and sub-category
// membership are checked past struct validation by the handler.
type PredictBody struct {
	MinSIP       float64 `json:"min_sip" default:"5000" validate:"gt=0"`
	FundAgeYr    float64 `json:"fund_age_yr" default:"5" validate:"gte=0"`
	Category     string  `json:"category" validate:"required"`
	SubCategory  string  `json:"sub_category"`
	MinLumpsum   float64 `json:"min_lumpsum" default:"10000" validate:"gt=0"`
	ExpenseRatio float64 `json:"expense_ratio" default:"1.5" validate:"gte=0"`
	FundSizeCr   float64 `json:"fund_size_cr" default:"2000" validate:"gt=0"`
	Sortino      float64 `json:"sortino" default:"0.5"`
	Alpha        float64 `json:"alpha" default:"2.0"`
	SD           float64 `json:"sd" default:"10.0" validate:"gte=0"`
	Beta         float64 `json:"beta" default:"1.0"`
	Sharpe       float64 `json:"sharpe" default:"0.8"`
	RiskLevel    float64 `json:"risk_level" default:"3" validate:"gte=1,lte=5"`
	AMCName      string  `json:"amc_name" validate:"required"`
	Rating       float64 `json:"rating" default:"4.5" validate:"gte=0,lte=5"`
	FundName     string  `json:"fund_name"`
	FundCode     string  `json:"fund_code"`
}

// ToRequest converts the validated body into the wire request.
func (b *PredictBody) ToRequest() PredictionRequest {
	return PredictionRequest{
		MinSIP:       b.MinSIP,
		FundAgeYr:    b.FundAgeYr,
		Category:     b.Category,
		SubCategory:  b.SubCategory,
		MinLumpsum:   b.MinLumpsum,
		ExpenseRatio: b.ExpenseRatio,
		FundSizeCr:   b.FundSizeCr,
		Sortino:      b.Sortino,
		Alpha:        b.Alpha,
		SD:           b.SD,
		Beta:         b.Beta,
		Sharpe:       b.Sharpe,
		RiskLevel:    b.RiskLevel,
		AMCName:      b.AMCName,
		Rating:       b.Rating,
		FundName:     b.FundName,
		FundCode:     b.FundCode,
	}
}

// CreateSessionBody starts an exploration session.
type CreateSessionBody struct {
	Category string `json:"category" default:"Equity"`
}

// ChangeCategoryBody switches an exploration session's active category.
type ChangeCategoryBody struct {
	Category string `json:"category" validate:"required"`
}

// AnalyzeBody carries optional overrides for a front-card analysis. Zero
// values fall back to the session defaults.
type AnalyzeBody struct {
	MinSIP    float64 `json:"min_sip" validate:"gte=0"`
	FundAgeYr float64 `json:"fund_age_yr" validate:"gte=0"`
}
