package analytics

import (
	"sort"

	"github.com/Paldeepak079/AadharIQ/models"
)

const (
	ClusterLow      = "Low_Activity"
	ClusterModerate = "Moderate_Activity"
	ClusterHigh     = "High_Activity"
	ClusterCritical = "Critical_Hubs"

	maxCriticalHubs = 10
)

var clusterOrder = []string{ClusterLow, ClusterModerate, ClusterHigh, ClusterCritical}

var TierDescriptions = map[string]string{
	ClusterCritical: "🎯 Priority districts requiring immediate infrastructure expansion",
	ClusterHigh:     "📊 High-performing centers maintaining strong enrollment momentum",
	ClusterModerate: "✓ Steady growth regions with stable operations",
	ClusterLow:      "⚠️ Under-penetrated zones requiring urgent intervention",
}

func tierDescriptions() map[string]string {
	out := make(map[string]string, len(TierDescriptions))
	for k, v := range TierDescriptions {
		out[k] = v
	}
	return out
}

// ClusterDistricts splits districts into enrolment quartiles. Bins are
// right-inclusive, so a value equal to a quartile edge lands in the lower
// tier.
func ClusterDistricts(districts []models.District) models.ClusterReport {
	report := models.ClusterReport{
		ClusterDistribution: make(map[string]int, len(clusterOrder)),
		CriticalHubs:        []models.ClusteredDistrict{},
		TierDescriptions:    tierDescriptions(),
	}
	for _, c := range clusterOrder {
		report.ClusterDistribution[c] = 0
	}
	if len(districts) == 0 {
		return report
	}

	values := make([]float64, len(districts))
	for i, d := range districts {
		values[i] = float64(d.Enrolments)
	}
	sorted := sortedCopy(values)
	edges := [3]float64{quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75)}
	report.Quartiles = edges

	var hubs []models.ClusteredDistrict
	for i, d := range districts {
		c := assignCluster(values[i], edges)
		report.ClusterDistribution[c]++
		if c == ClusterCritical {
			hubs = append(hubs, models.ClusteredDistrict{
				State:      d.State,
				District:   d.District,
				Enrolments: d.Enrolments,
				Cluster:    c,
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Enrolments > hubs[j].Enrolments })
	if len(hubs) > maxCriticalHubs {
		hubs = hubs[:maxCriticalHubs]
	}
	if hubs != nil {
		report.CriticalHubs = hubs
	}
	return report
}

func assignCluster(v float64, edges [3]float64) string {
	switch {
	case v <= edges[0]:
		return ClusterLow
	case v <= edges[1]:
		return ClusterModerate
	case v <= edges[2]:
		return ClusterHigh
	default:
		return ClusterCritical
	}
}
