package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsIsSingleton(t *testing.T) {
	assert.Same(t, NewMetrics(), NewMetrics())
}

func TestRecordReload(t *testing.T) {
	m := NewMetrics()
	before := testutil.ToFloat64(m.reloadsTotal.WithLabelValues("error"))

	m.RecordReload(36, 500, time.Unix(1700000000, 0), nil)
	assert.Equal(t, 36.0, testutil.ToFloat64(m.datasetStates))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.datasetDistricts))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.datasetLoadedAt))

	m.RecordReload(0, 0, time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(m.reloadsTotal.WithLabelValues("error")))
	assert.Equal(t, 36.0, testutil.ToFloat64(m.datasetStates))
}

func TestRecordInsight(t *testing.T) {
	m := NewMetrics()
	before := testutil.ToFloat64(m.insightsTotal.WithLabelValues("citizen", "cached"))
	m.RecordInsight("citizen", "cached", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(m.insightsTotal.WithLabelValues("citizen", "cached")))
}

func TestSetHealthStatus(t *testing.T) {
	m := NewMetrics()
	m.SetHealthStatus(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.healthStatus))
	m.SetHealthStatus(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.healthStatus))
}
