package analytics

import (
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const (
	EstimatedChildPopulation int64 = 420_000_000
	EstimatedAdultPopulation int64 = 980_000_000

	DefaultStateSaturation = 95.0
)

// Gap statuses.
const (
	GapCritical = "CRITICAL"
	GapModerate = "MODERATE"
	GapHealthy  = "HEALTHY"
)

type GapClass struct {
	Status string
	Tier   string
	Color  string
}

// ClassifyGap buckets a saturation gap: above 10 points is critical, above 5
// is mid, anything else counts as saturated.
func ClassifyGap(gap float64) GapClass {
	switch {
	case gap > 10:
		return GapClass{Status: GapCritical, Tier: "critical", Color: "#ef4444"}
	case gap > 5:
		return GapClass{Status: GapModerate, Tier: "mid", Color: "#f97316"}
	default:
		return GapClass{Status: GapHealthy, Tier: "saturated", Color: "#22c55e"}
	}
}

// AgeGroupSaturation estimates coverage for children (0-17) and adults.
func AgeGroupSaturation(summary models.Summary) models.SaturationReport {
	child := summary.TotalChildEnrolments
	adult := summary.TotalEnrolments - child

	childPct := float64(child) / float64(EstimatedChildPopulation) * 100
	adultPct := float64(adult) / float64(EstimatedAdultPopulation) * 100

	return models.SaturationReport{
		Children: models.AgeGroupSaturation{
			Enrolled:            child,
			EstimatedPopulation: EstimatedChildPopulation,
			SaturationPercent:   utils.Round(childPct, 2),
			Status:              childStatus(childPct),
		},
		Adults: models.AgeGroupSaturation{
			Enrolled:            adult,
			EstimatedPopulation: EstimatedAdultPopulation,
			SaturationPercent:   utils.Round(adultPct, 2),
			Status:              adultStatus(adultPct),
		},
	}
}

func childStatus(pct float64) string {
	switch {
	case pct < 50:
		return "CRITICAL"
	case pct < 80:
		return "MODERATE"
	default:
		return "GOOD"
	}
}

func adultStatus(pct float64) string {
	switch {
	case pct < 50:
		return "CRITICAL"
	case pct < 95:
		return "MODERATE"
	default:
		return "EXCELLENT"
	}
}

// StateSaturation builds the per-state saturation list. States without a
// published saturation figure fall back to the default estimate.
func StateSaturation(states []models.StateStats) []models.StateSaturation {
	out := make([]models.StateSaturation, 0, len(states))
	for _, s := range states {
		sat := DefaultStateSaturation
		estimated := true
		if s.Saturation != nil {
			sat = *s.Saturation
			estimated = false
		}
		if sat > 100 {
			sat = 100
		}
		gap := utils.Round(100-sat, 2)
		class := ClassifyGap(gap)
		out = append(out, models.StateSaturation{
			State:      s.State,
			Saturation: utils.Round(sat, 2),
			Gap:        gap,
			Status:     class.Status,
			Tier:       class.Tier,
			Color:      class.Color,
			Estimated:  estimated,
		})
	}
	return out
}

// SaturationFor finds one state's saturation entry, falling back to the
// default estimate when the state is unknown.
func SaturationFor(list []models.StateSaturation, state string) models.StateSaturation {
	for _, s := range list {
		if equalFold(s.State, state) {
			return s
		}
	}
	gap := 100 - DefaultStateSaturation
	class := ClassifyGap(gap)
	return models.StateSaturation{
		State:      state,
		Saturation: DefaultStateSaturation,
		Gap:        gap,
		Status:     class.Status,
		Tier:       class.Tier,
		Color:      class.Color,
		Estimated:  true,
	}
}
