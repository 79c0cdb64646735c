package domain

// ResourceCard is one cloud resource as shown on the inventory page. SeriesJSON
// carries the embedded usage time-series payload: {"dates":[...],"values":[...]}.
type ResourceCard struct {
	ID          string  `json:"id"`
	Provider    string  `json:"provider"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	MonthlyCost float64 `json:"monthly_cost"`
	RAMMB       int     `json:"ram_mb"`
	Region      string  `json:"region,omitempty"`
	SeriesJSON  string  `json:"series_json,omitempty"`
}

// ProviderSection groups resource cards by hosting provider and carries the
// expand/collapse display state of its detail panel.
type ProviderSection struct {
	Provider      string         `json:"provider"`
	Cards         []ResourceCard `json:"cards"`
	Expanded      bool           `json:"expanded"`
	ChevronDegree int            `json:"chevron_degree"`
}

// ChartSeries is the parsed form of an embedded time-series payload.
type ChartSeries struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}
