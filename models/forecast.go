package models

type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// ParseGranularity maps a query value to a granularity, defaulting to daily.
func ParseGranularity(v string) (Granularity, bool) {
	switch Granularity(v) {
	case "", Daily:
		return Daily, true
	case Monthly:
		return Monthly, true
	}
	return "", false
}

// SeriesPoint is a single dated value used as merge input.
type SeriesPoint struct {
	Date  string
	Value float64
}

type MergedPoint struct {
	Date      string   `json:"date"`
	Actual    *float64 `json:"actual"`
	Predicted *float64 `json:"predicted"`
	Upper     *float64 `json:"upper"`
	Lower     *float64 `json:"lower"`
	Label     string   `json:"label"`
}

type ForecastSummary struct {
	DailyGrowthRate int64   `json:"daily_growth_rate"`
	CurrentAverage  int64   `json:"current_average"`
	ForecastAverage int64   `json:"forecast_average"`
	GrowthPercent   float64 `json:"growth_percent"`
	Interpretation  string  `json:"interpretation,omitempty"`
}

type ModelMetadata struct {
	Citation   string `json:"citation"`
	InputRange string `json:"input_range"`
	Algorithm  string `json:"algorithm"`
}

type ForecastResponse struct {
	ForecastSummary
	State           string        `json:"state"`
	Granularity     Granularity   `json:"granularity"`
	MergedData      []MergedPoint `json:"mergedData"`
	ConfidenceScore float64       `json:"confidence_score"`
	ModelMetadata   ModelMetadata `json:"model_metadata"`
}

type PulsePoint struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	Enrolments int64  `json:"enrolments"`
	Updates    int64  `json:"updates"`
	Total      int64  `json:"total"`
	Bottleneck bool   `json:"bottleneck"`
}

type PulseReport struct {
	State           string       `json:"state"`
	Granularity     Granularity  `json:"granularity"`
	Series          []PulsePoint `json:"series"`
	Average         float64      `json:"average"`
	Peak            *PulsePoint  `json:"peak"`
	MomentumPercent float64      `json:"momentum_percent"`
	Bottlenecks     int          `json:"bottlenecks"`
}
