package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func TestClusterDistricts(t *testing.T) {
	var districts []models.District
	for i := 1; i <= 8; i++ {
		districts = append(districts, models.District{State: "S", District: fmt.Sprintf("D%d", i), Enrolments: int64(i)})
	}
	r := ClusterDistricts(districts)

	assert.Equal(t, [3]float64{2.75, 4.5, 6.25}, r.Quartiles)
	assert.Equal(t, map[string]int{
		ClusterLow:      2,
		ClusterModerate: 2,
		ClusterHigh:     2,
		ClusterCritical: 2,
	}, r.ClusterDistribution)
	require.Len(t, r.CriticalHubs, 2)
	assert.Equal(t, "D8", r.CriticalHubs[0].District)
	assert.Equal(t, "D7", r.CriticalHubs[1].District)
	assert.Len(t, r.TierDescriptions, 4)
}

func TestClusterDistrictsEdgeValuesFallLow(t *testing.T) {
	assert.Equal(t, ClusterLow, assignCluster(2.75, [3]float64{2.75, 4.5, 6.25}))
	assert.Equal(t, ClusterCritical, assignCluster(6.26, [3]float64{2.75, 4.5, 6.25}))
}

func TestClusterDistrictsEmpty(t *testing.T) {
	r := ClusterDistricts(nil)
	assert.Equal(t, 0, r.ClusterDistribution[ClusterCritical])
	assert.Len(t, r.ClusterDistribution, 4)
	assert.NotNil(t, r.CriticalHubs)
}

func TestClusterDistrictsCapsHubs(t *testing.T) {
	var districts []models.District
	for i := 1; i <= 60; i++ {
		districts = append(districts, models.District{District: fmt.Sprintf("D%d", i), Enrolments: int64(i)})
	}
	r := ClusterDistricts(districts)
	assert.Len(t, r.CriticalHubs, 10)
	assert.Equal(t, int64(60), r.CriticalHubs[0].Enrolments)
}
