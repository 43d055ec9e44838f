package analytics

import (
	"time"

	"github.com/Paldeepak079/AadharIQ/models"
)

const reportType = "National Aadhaar Analytics Report"

// Analyze builds the comprehensive analytics report for a dataset.
func Analyze(ds *models.Dataset, now time.Time) *models.AnalyticsReport {
	states := ScoreStates(ds.States)
	return &models.AnalyticsReport{
		Metadata: models.ReportMetadata{
			GeneratedAt: now.Format(time.RFC3339),
			DataSummary: ds.Summary,
			ReportType:  reportType,
		},
		SaturationAnalysis:   AgeGroupSaturation(ds.Summary),
		AnomalyDetection:     DetectAnomalies(states),
		RuralUrbanAnalysis:   RuralUrbanVariance(states),
		Forecasting:          ForecastSummaryFor(ds.TimeSeries),
		Clustering:           ClusterDistricts(ds.Districts),
		StateRecommendations: Recommend(states),
	}
}
