package models

// CardStatus is the analysis lifecycle of one exploration card.
type CardStatus string

const (
	CardUnanalyzed CardStatus = "unanalyzed"
	CardAnalyzing  CardStatus = "analyzing"
	CardAnalyzed   CardStatus = "analyzed"
)

// CardState is one slot in the exploration ring. PredictedReturn and
// PredictedRisk are meaningful only when Status is CardAnalyzed.
type CardState struct {
	Fund            Fund       `json:"fund"`
	Status          CardStatus `json:"status"`
	PredictedReturn float64    `json:"predicted_return"`
	PredictedRisk   float64    `json:"predicted_risk"`
}

// ExplorationPool is a fixed-size ring of cards with one front card.
type ExplorationPool struct {
	SessionID  string      `json:"session_id"`
	Category   string      `json:"category"`
	Cards      []CardState `json:"cards"`
	FrontIndex int         `json:"front_index"`
}

// Front returns the card the user currently interacts with.
func (p *ExplorationPool) Front() *CardState {
	return &p.Cards[p.FrontIndex]
}

// LoadState is the lifecycle of a recommendation slot's series fetch.
type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadLoading LoadState = "loading"
	LoadLoaded  LoadState = "loaded"
	LoadErrored LoadState = "errored"
)

// RecommendationSlot is the single rotating recommended-fund slot.
// Slots are replaced wholesale on refresh, never mutated across
// generations.
type RecommendationSlot struct {
	Fund          Fund       `json:"fund"`
	Generation    uint64     `json:"generation"`
	LoadState     LoadState  `json:"load_state"`
	Error         string     `json:"error,omitempty"`
	LatestNav     float64    `json:"latest_nav"`
	PrevNav       float64    `json:"prev_nav"`
	Change        float64    `json:"change"`
	PercentChange float64    `json:"percent_change"`
	Chart         []NavPoint `json:"chart,omitempty"`
}
