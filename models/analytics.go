package models

type AgeGroupSaturation struct {
	Enrolled            int64   `json:"enrolled"`
	EstimatedPopulation int64   `json:"estimated_population"`
	SaturationPercent   float64 `json:"saturation_percent"`
	Status              string  `json:"status"`
}

type SaturationReport struct {
	Children AgeGroupSaturation `json:"children_0_17"`
	Adults   AgeGroupSaturation `json:"adults_18_plus"`
}

type StateSaturation struct {
	State      string  `json:"state"`
	Saturation float64 `json:"saturation"`
	Gap        float64 `json:"gap"`
	Status     string  `json:"status"`
	Tier       string  `json:"tier"`
	Color      string  `json:"color"`
	Estimated  bool    `json:"estimated"`
}

type Anomaly struct {
	State       string  `json:"state"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	UpdateRatio float64 `json:"update_ratio"`
	ZScore      float64 `json:"z_score"`
	Enrolments  int64   `json:"enrolments"`
	Updates     int64   `json:"updates"`
	Explanation string  `json:"explanation,omitempty"`
}

type AnomalyInsight struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Region      string  `json:"region"`
	Score       float64 `json:"score"`
}

type AnomalyScores struct {
	NationalUpdateRatio float64          `json:"national_update_ratio"`
	States              []StateScore     `json:"states"`
	Insights            []AnomalyInsight `json:"insights"`
}

type StateScore struct {
	State        string  `json:"state"`
	UpdateRatio  float64 `json:"update_ratio"`
	AnomalyScore float64 `json:"anomaly_score"`
}

type RuralUrbanAnalysis struct {
	NationalRuralPercent float64  `json:"national_rural_percent"`
	NationalUrbanPercent float64  `json:"national_urban_percent"`
	HighRuralStates      []string `json:"high_rural_states"`
	HighUrbanStates      []string `json:"high_urban_states"`
	StatesWithData       int      `json:"states_with_data"`
}

type ClusterReport struct {
	ClusterDistribution map[string]int      `json:"cluster_distribution"`
	CriticalHubs        []ClusteredDistrict `json:"critical_hubs"`
	TierDescriptions    map[string]string   `json:"tier_descriptions"`
	Quartiles           [3]float64          `json:"quartiles"`
}

type ClusteredDistrict struct {
	State      string `json:"state"`
	District   string `json:"district"`
	Enrolments int64  `json:"enrolments"`
	Cluster    string `json:"cluster"`
}

type Recommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

type StateRecommendation struct {
	State             string           `json:"state"`
	CurrentEnrolments int64            `json:"current_enrolments"`
	CurrentUpdates    int64            `json:"current_updates"`
	ChildEnrolments   int64            `json:"child_enrolments"`
	UpdateRatio       float64          `json:"update_ratio"`
	Recommendations   []Recommendation `json:"recommendations"`
}

type ReportMetadata struct {
	GeneratedAt string  `json:"generated_at"`
	DataSummary Summary `json:"data_summary"`
	ReportType  string  `json:"report_type"`
}

type AnalyticsReport struct {
	Metadata             ReportMetadata        `json:"metadata"`
	SaturationAnalysis   SaturationReport      `json:"saturation_analysis"`
	AnomalyDetection     []Anomaly             `json:"anomaly_detection"`
	RuralUrbanAnalysis   RuralUrbanAnalysis    `json:"rural_urban_analysis"`
	Forecasting          *ForecastSummary      `json:"forecasting"`
	Clustering           ClusterReport         `json:"clustering"`
	StateRecommendations []StateRecommendation `json:"state_recommendations"`
}
