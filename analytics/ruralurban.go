package analytics

import (
	"sort"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const (
	highRuralThreshold = 75.0
	highUrbanThreshold = 50.0
	maxVarianceStates  = 5
)

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func urbanOf(s models.StateStats) float64 {
	if s.UrbanRatio != nil {
		return *s.UrbanRatio
	}
	return 100 - *s.RuralRatio
}

// RuralUrbanVariance computes the enrolment-weighted national rural share and
// the states furthest from it. States without a rural ratio are ignored.
func RuralUrbanVariance(states []models.StateStats) models.RuralUrbanAnalysis {
	known := make([]models.StateStats, 0, len(states))
	for _, s := range states {
		if s.RuralRatio != nil {
			known = append(known, s)
		}
	}
	res := models.RuralUrbanAnalysis{
		HighRuralStates: []string{},
		HighUrbanStates: []string{},
		StatesWithData:  len(known),
	}
	if len(known) == 0 {
		return res
	}

	var weighted, enrol float64
	for _, s := range known {
		weighted += *s.RuralRatio * float64(s.Enrolments)
		enrol += float64(s.Enrolments)
	}
	if enrol > 0 {
		rural := weighted / enrol
		res.NationalRuralPercent = utils.Round(rural, 2)
		res.NationalUrbanPercent = utils.Round(100-rural, 2)
	}

	byEnrolments := append([]models.StateStats(nil), known...)
	sort.SliceStable(byEnrolments, func(i, j int) bool {
		return byEnrolments[i].Enrolments > byEnrolments[j].Enrolments
	})
	for _, s := range byEnrolments {
		if *s.RuralRatio > highRuralThreshold && len(res.HighRuralStates) < maxVarianceStates {
			res.HighRuralStates = append(res.HighRuralStates, s.State)
		}
		if urbanOf(s) > highUrbanThreshold && len(res.HighUrbanStates) < maxVarianceStates {
			res.HighUrbanStates = append(res.HighUrbanStates, s.State)
		}
	}
	return res
}
