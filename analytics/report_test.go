package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func TestAnalyze(t *testing.T) {
	states := outlierStates()
	ds := &models.Dataset{
		States:     states,
		Districts:  []models.District{{State: "S", District: "D", Enrolments: 10}},
		TimeSeries: linearSeries(15, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	ds.Summary = models.Summarize(ds.States, ds.Districts, "2025-03-01T00:00:00Z")

	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	r := Analyze(ds, now)

	assert.Equal(t, "2025-03-02T10:00:00Z", r.Metadata.GeneratedAt)
	assert.Equal(t, "National Aadhaar Analytics Report", r.Metadata.ReportType)
	assert.Equal(t, 10, r.Metadata.DataSummary.TotalStates)
	require.Len(t, r.AnomalyDetection, 1)
	assert.Equal(t, "Outlier", r.AnomalyDetection[0].State)
	require.NotNil(t, r.Forecasting)
	assert.Len(t, r.StateRecommendations, 10)
	assert.Equal(t, 1, r.Clustering.ClusterDistribution[ClusterLow])
}

func TestAnalyzeShortSeries(t *testing.T) {
	r := Analyze(&models.Dataset{}, time.Now())
	assert.Nil(t, r.Forecasting)
	assert.Empty(t, r.AnomalyDetection)
	assert.Empty(t, r.StateRecommendations)
}
