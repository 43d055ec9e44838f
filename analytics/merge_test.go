package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func TestMergeSeriesNullFills(t *testing.T) {
	actual := []models.SeriesPoint{{Date: "2025-01-01", Value: 1}, {Date: "2025-01-02", Value: 2}}
	predicted := []BandPoint{{Date: "2025-01-03", Predicted: 3, Upper: 4, Lower: 2}}

	merged := MergeSeries(actual, predicted, nil)
	require.Len(t, merged, 3)

	assert.Equal(t, "2025-01-01", merged[0].Date)
	assert.Equal(t, "2025-01-01", merged[0].Label)
	assert.Nil(t, merged[0].Predicted)
	assert.Nil(t, merged[0].Upper)

	require.NotNil(t, merged[1].Predicted)
	assert.Equal(t, 2.0, *merged[1].Actual)
	assert.Equal(t, 2.0, *merged[1].Predicted)
	assert.Equal(t, 2.0, *merged[1].Upper)

	assert.Nil(t, merged[2].Actual)
	assert.Equal(t, 3.0, *merged[2].Predicted)
	assert.Equal(t, 4.0, *merged[2].Upper)
	assert.Equal(t, 2.0, *merged[2].Lower)
}

func TestMergeSeriesOverlapKeepsPrediction(t *testing.T) {
	actual := []models.SeriesPoint{{Date: "d1", Value: 10}}
	predicted := []BandPoint{{Date: "d1", Predicted: 12, Upper: 14, Lower: 10}}

	merged := MergeSeries(actual, predicted, func(s string) string { return "L-" + s })
	require.Len(t, merged, 1)
	assert.Equal(t, 10.0, *merged[0].Actual)
	assert.Equal(t, 12.0, *merged[0].Predicted)
	assert.Equal(t, "L-d1", merged[0].Label)
}

func TestMergeSeriesEmpty(t *testing.T) {
	assert.Empty(t, MergeSeries(nil, nil, nil))
}
