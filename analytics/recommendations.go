package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const (
	maxRecommendedStates   = 10
	updateCapacityRatio    = 20
	ruralOutreachThreshold = 70
	childSaturationShare   = 0.9
)

// Recommend produces strategic actions for the ten largest states by
// enrolment.
func Recommend(states []models.StateStats) []models.StateRecommendation {
	top := append([]models.StateStats(nil), states...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Enrolments > top[j].Enrolments })
	if len(top) > maxRecommendedStates {
		top = top[:maxRecommendedStates]
	}

	out := make([]models.StateRecommendation, 0, len(top))
	for _, s := range top {
		ratio := s.UpdateRatio()
		rec := models.StateRecommendation{
			State:             s.State,
			CurrentEnrolments: s.Enrolments,
			CurrentUpdates:    s.Updates,
			ChildEnrolments:   s.ChildEnrolments,
			UpdateRatio:       utils.Round(ratio, 2),
			Recommendations:   []models.Recommendation{},
		}
		if ratio > updateCapacityRatio {
			rec.Recommendations = append(rec.Recommendations, models.Recommendation{
				Priority: "HIGH",
				Category: "Update Capacity",
				Action:   fmt.Sprintf("Deploy additional biometric update centers to handle %s pending updates", utils.FormatThousands(s.Updates)),
			})
		}
		if s.RuralRatio != nil && *s.RuralRatio > ruralOutreachThreshold {
			rec.Recommendations = append(rec.Recommendations, models.Recommendation{
				Priority: "MEDIUM",
				Category: "Rural Outreach",
				Action:   fmt.Sprintf("Strengthen mobile enrolment units in rural areas (%.1f%% rural population)", *s.RuralRatio),
			})
		}
		if s.Enrolments > 0 && float64(s.ChildEnrolments)/float64(s.Enrolments) > childSaturationShare {
			rec.Recommendations = append(rec.Recommendations, models.Recommendation{
				Priority: "HIGH",
				Category: "Child Saturation",
				Action:   "Focus on school-based enrollment drives for 0-5 age group",
			})
		} else {
			rec.Recommendations = append(rec.Recommendations, models.Recommendation{
				Priority: "MEDIUM",
				Category: "Adult Coverage",
				Action:   "Expand adult enrollment through employer partnerships and community centers",
			})
		}
		out = append(out, rec)
	}
	return out
}

// FilterRecommendations keeps entries whose state contains query,
// case-insensitively.
func FilterRecommendations(recs []models.StateRecommendation, query string) []models.StateRecommendation {
	if query == "" {
		return recs
	}
	q := strings.ToLower(query)
	out := make([]models.StateRecommendation, 0)
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.State), q) {
			out = append(out, r)
		}
	}
	return out
}
