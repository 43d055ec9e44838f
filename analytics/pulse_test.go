package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func TestPulseMomentum(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var series []models.TimePoint
	for i := 0; i < 14; i++ {
		enrol := int64(100)
		if i >= 7 {
			enrol = 200
		}
		series = append(series, models.TimePoint{Date: start.AddDate(0, 0, i).Format("2006-01-02"), Enrolments: enrol, Updates: 50})
	}

	p, err := Pulse(series, "", models.Daily)
	require.NoError(t, err)
	assert.Equal(t, models.AllIndia, p.State)
	require.Len(t, p.Series, 14)
	assert.Equal(t, int64(150), p.Series[0].Total)
	assert.Equal(t, 200.0, p.Average)
	assert.Equal(t, 66.67, p.MomentumPercent)
	require.NotNil(t, p.Peak)
	assert.Equal(t, "2025-03-08", p.Peak.Date)
	assert.Zero(t, p.Bottlenecks)

	monthly, err := Pulse(series, "Goa", models.Monthly)
	require.NoError(t, err)
	require.Len(t, monthly.Series, 1)
	assert.Equal(t, "Mar 2025", monthly.Series[0].Label)
	assert.Equal(t, int64(2800), monthly.Series[0].Total)
	assert.Zero(t, monthly.MomentumPercent)
}

func TestPulseBottlenecks(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var series []models.TimePoint
	for i := 0; i < 20; i++ {
		enrol := int64(100)
		if i == 10 {
			enrol = 1000
		}
		series = append(series, models.TimePoint{Date: start.AddDate(0, 0, i).Format("2006-01-02"), Enrolments: enrol})
	}
	p, err := Pulse(series, "", models.Daily)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Bottlenecks)
	assert.True(t, p.Series[10].Bottleneck)
	assert.Equal(t, int64(1000), p.Peak.Total)
}

func TestPulseEmpty(t *testing.T) {
	p, err := Pulse(nil, "Goa", models.Daily)
	require.NoError(t, err)
	assert.Empty(t, p.Series)
	assert.Nil(t, p.Peak)

	_, err = Pulse(nil, "Goa", models.Granularity("hourly"))
	assert.Error(t, err)
}
