package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot/vg"

	"github.com/Paldeepak079/AadharIQ/models"
)

func ptr(v float64) *float64 { return &v }

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	assert.Equal(t, "AadhaarIQ_Uttar_Pradesh_1700000000123.pdf", FileName("Uttar  Pradesh", at))
	assert.Equal(t, "AadhaarIQ_Report_1700000000123.pdf", FileName("", at))
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("")
	r.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	err := r.Render(&buf, PDFRequest{
		Title:     "Policy Brief",
		StateName: "Kerala",
		Summary:   &models.Summary{TotalEnrolments: 25_000_000, TotalUpdates: 10_000_000, TotalChildEnrolments: 1_000_000, TotalStates: 36},
		Insights: &models.InsightResponse{
			Insight:         "Executive Summary: enrolment is steady.",
			InsightHindi:    "नामांकन स्थिर है।",
			Tags:            []models.TrendTag{{Type: "update-backlog", Severity: "medium", Confidence: 0.7}},
			ActionableSteps: []string{"Set up weekend enrollment camps in underserved pincodes"},
			Metrics:         &models.RegionMetrics{Gap: 4.5, Anomaly: 0.31, Status: "HEALTHY"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_LongInsightPaginates(t *testing.T) {
	steps := make([]string, 120)
	for i := range steps {
		steps[i] = "Deploy van-based mobile enrollment for remote tribal areas"
	}
	var buf bytes.Buffer
	err := NewPDFRenderer("").Render(&buf, PDFRequest{Insights: &models.InsightResponse{ActionableSteps: steps}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	r := NewPDFRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	var buf bytes.Buffer
	err := r.Render(&buf, PDFRequest{Insights: &models.InsightResponse{Insight: "x", InsightHindi: "अ"}})
	assert.Error(t, err)
}

func TestForecastChart(t *testing.T) {
	fc := &models.ForecastResponse{
		State:       "All India",
		Granularity: models.Monthly,
		MergedData: []models.MergedPoint{
			{Date: "2025-01-01", Label: "Jan 2025", Actual: ptr(100)},
			{Date: "2025-02-01", Label: "Feb 2025", Actual: ptr(120)},
			{Date: "2025-03-01", Label: "Mar 2025", Actual: ptr(130), Predicted: ptr(130)},
			{Date: "2025-04-01", Label: "Apr 2025", Predicted: ptr(140), Upper: ptr(160), Lower: ptr(120)},
			{Date: "2025-05-01", Label: "May 2025", Predicted: ptr(150), Upper: ptr(175), Lower: ptr(125)},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, ForecastChart(&buf, fc, 6*vg.Inch, 4*vg.Inch))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestForecastChart_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, ForecastChart(&buf, &models.ForecastResponse{}, vg.Inch, vg.Inch))
	assert.Error(t, ForecastChart(&buf, nil, vg.Inch, vg.Inch))
}

func TestLabelTicker(t *testing.T) {
	labels := make(labelTicker, 20)
	for i := range labels {
		labels[i] = "d"
	}
	ticks := labels.Ticks(0, 19)
	require.Len(t, ticks, 20)
	named := 0
	for _, tk := range ticks {
		if tk.Label != "" {
			named++
		}
	}
	assert.Equal(t, 7, named)
}

func TestWorkbook(t *testing.T) {
	rural := 70.0
	lat, lng := 9.98, 76.3
	ds := &models.Dataset{
		States: []models.StateStats{
			{State: "Kerala", Enrolments: 100, Updates: 50, RuralRatio: &rural},
			{State: "Goa", Enrolments: 10, Updates: 5},
		},
		Districts: []models.District{
			{State: "Kerala", District: "Ernakulam", Enrolments: 100, Lat: &lat, Lng: &lng, Offices: 3},
		},
	}
	rep := &models.AnalyticsReport{
		AnomalyDetection: []models.Anomaly{{State: "Goa", Type: "HIGH_UPDATE_VELOCITY", Severity: "HIGH", UpdateRatio: 60}},
		StateRecommendations: []models.StateRecommendation{
			{State: "Kerala", Recommendations: []models.Recommendation{
				{Priority: "HIGH", Category: "Child Enrolment", Action: "a"},
				{Priority: "MEDIUM", Category: "Updates", Action: "b"},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Workbook(&buf, ds, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStates, SheetAnomalies, SheetRecommendations, SheetDistricts}, f.GetSheetList())

	states, err := f.GetRows(SheetStates)
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, "State", states[0][0])
	assert.Equal(t, []string{"Kerala", "100", "50"}, states[1][:3])
	assert.Equal(t, "70", states[1][6])

	recs, err := f.GetRows(SheetRecommendations)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Kerala", "MEDIUM", "Updates", "b"}, recs[2])

	districts, err := f.GetRows(SheetDistricts)
	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, "Ernakulam", districts[1][1])
	assert.Equal(t, "9.98", districts[1][5])
}

func TestWorkbook_NoReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Workbook(&buf, &models.Dataset{}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetAnomalies)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
