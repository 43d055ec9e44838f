package models

type Audience string

const (
	AudiencePolicymaker Audience = "policymaker"
	AudienceFieldTeam   Audience = "field_team"
	AudienceCitizen     Audience = "citizen"
	AudienceAnalyst     Audience = "analyst"
)

func (a Audience) Valid() bool {
	switch a {
	case AudiencePolicymaker, AudienceFieldTeam, AudienceCitizen, AudienceAnalyst:
		return true
	}
	return false
}

type Language string

const (
	English Language = "EN"
	Hindi   Language = "HI"
)

func (l Language) Valid() bool {
	return l == English || l == Hindi
}

type TrendTag struct {
	Type       string  `json:"type"`
	Severity   string  `json:"severity"`
	Confidence float64 `json:"confidence"`
}

type InsightRequest struct {
	Region      string   `json:"region"`
	DataSummary string   `json:"data_summary"`
	Audience    Audience `json:"audience"`
	Language    Language `json:"language"`
}

type RegionMetrics struct {
	Gap     float64 `json:"gap"`
	Anomaly float64 `json:"anomaly"`
	Status  string  `json:"status"`
}

type InsightResponse struct {
	Insight         string         `json:"insight"`
	InsightHindi    string         `json:"insightHindi,omitempty"`
	Tags            []TrendTag     `json:"tags"`
	ActionableSteps []string       `json:"actionableSteps"`
	Timestamp       int64          `json:"timestamp"`
	CacheKey        string         `json:"cacheKey"`
	Metrics         *RegionMetrics `json:"metrics,omitempty"`
	Fallback        bool           `json:"fallback,omitempty"`
}

// InsightRecord is the archived form of a generated insight.
type InsightRecord struct {
	ID        string          `json:"id" bson:"_id"`
	Region    string          `json:"region" bson:"region"`
	Audience  Audience        `json:"audience" bson:"audience"`
	Language  Language        `json:"language" bson:"language"`
	Summary   string          `json:"data_summary" bson:"data_summary"`
	Response  InsightResponse `json:"response" bson:"response"`
	CreatedAt int64           `json:"created_at" bson:"created_at"`
}

type CacheStats struct {
	Size        int    `json:"size"`
	OldestEntry *int64 `json:"oldestEntry"`
	Backend     string `json:"backend"`
}
