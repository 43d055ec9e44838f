package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func TestRecommend(t *testing.T) {
	recs := Recommend([]models.StateStats{
		{State: "Goa", Enrolments: 500, Updates: 100, ChildEnrolments: 100},
		{State: "Uttar Pradesh", Enrolments: 1000, Updates: 30000, ChildEnrolments: 950, RuralRatio: ptr(80)},
		{State: "Ladakh"},
	})
	require.Len(t, recs, 3)

	up := recs[0]
	assert.Equal(t, "Uttar Pradesh", up.State)
	assert.Equal(t, 29.97, up.UpdateRatio)
	require.Len(t, up.Recommendations, 3)
	assert.Equal(t, models.Recommendation{
		Priority: "HIGH",
		Category: "Update Capacity",
		Action:   "Deploy additional biometric update centers to handle 30,000 pending updates",
	}, up.Recommendations[0])
	assert.Equal(t, "Strengthen mobile enrolment units in rural areas (80.0% rural population)", up.Recommendations[1].Action)
	assert.Equal(t, "Child Saturation", up.Recommendations[2].Category)

	goa := recs[1]
	require.Len(t, goa.Recommendations, 1)
	assert.Equal(t, "Adult Coverage", goa.Recommendations[0].Category)
	assert.Equal(t, "MEDIUM", goa.Recommendations[0].Priority)

	assert.Equal(t, "Adult Coverage", recs[2].Recommendations[0].Category)
}

func TestRecommendTopTen(t *testing.T) {
	var states []models.StateStats
	for i := 0; i < 12; i++ {
		states = append(states, models.StateStats{State: fmt.Sprintf("S%02d", i), Enrolments: int64(i * 100)})
	}
	recs := Recommend(states)
	require.Len(t, recs, 10)
	assert.Equal(t, "S11", recs[0].State)
	assert.Equal(t, "S02", recs[9].State)
}

func TestFilterRecommendations(t *testing.T) {
	recs := []models.StateRecommendation{{State: "Uttar Pradesh"}, {State: "Madhya Pradesh"}, {State: "Goa"}}
	assert.Len(t, FilterRecommendations(recs, "pradesh"), 2)
	assert.Len(t, FilterRecommendations(recs, ""), 3)
	assert.Empty(t, FilterRecommendations(recs, "kerala"))
}
