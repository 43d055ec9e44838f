package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Paldeepak079/AadharIQ/models"
)

func ptr(v float64) *float64 { return &v }

func TestRuralUrbanVariance(t *testing.T) {
	res := RuralUrbanVariance([]models.StateStats{
		{State: "A", Enrolments: 100, RuralRatio: ptr(80)},
		{State: "B", Enrolments: 300, RuralRatio: ptr(40)},
		{State: "C", Enrolments: 900},
	})
	assert.Equal(t, 50.0, res.NationalRuralPercent)
	assert.Equal(t, 50.0, res.NationalUrbanPercent)
	assert.Equal(t, []string{"A"}, res.HighRuralStates)
	assert.Equal(t, []string{"B"}, res.HighUrbanStates)
	assert.Equal(t, 2, res.StatesWithData)
}

func TestRuralUrbanVarianceWithoutData(t *testing.T) {
	res := RuralUrbanVariance([]models.StateStats{{State: "A", Enrolments: 100}})
	assert.Zero(t, res.NationalRuralPercent)
	assert.Empty(t, res.HighRuralStates)
	assert.NotNil(t, res.HighUrbanStates)
}

func TestRuralUrbanVarianceCapsLists(t *testing.T) {
	var states []models.StateStats
	for i := 0; i < 7; i++ {
		states = append(states, models.StateStats{State: string(rune('A' + i)), Enrolments: int64(100 + i), RuralRatio: ptr(90)})
	}
	res := RuralUrbanVariance(states)
	assert.Len(t, res.HighRuralStates, 5)
	assert.Equal(t, "G", res.HighRuralStates[0])
}
