package models

// Fund is a read-only reference into the static catalog.
type Fund struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category,omitempty"`
}

// NavPoint is one (date, nav) observation of a fund's time series.
type NavPoint struct {
	Date string  `json:"date"`
	Nav  float64 `json:"nav"`
}

// FundSeries is a fund's NAV history, most-recent first, as the series
// service delivers it.
type FundSeries struct {
	SchemeName string     `json:"scheme_name"`
	Points     []NavPoint `json:"points"`
}

// FundSearchHit is one match from the free-text fund search.
type FundSearchHit struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}
