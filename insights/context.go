package insights

import (
	"fmt"
	"strconv"

	"github.com/Paldeepak079/AadharIQ/models"
)

func millions(v int64) string {
	return fmt.Sprintf("%.2fM", float64(v)/1_000_000)
}

func crores(v int64) string {
	return fmt.Sprintf("%.2fCr", float64(v)/10_000_000)
}

func shortFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StateSummary describes one state for the prompt.
func StateSummary(s models.StateStats) string {
	rural := "Data Not Available"
	if s.RuralRatio != nil {
		rural = shortFloat(*s.RuralRatio)
	}
	return fmt.Sprintf("State: %s, Enrolments: %s, Updates: %s, Child Coverage: %s, Anomaly Score: %s, Rural Ratio: %s",
		s.State, millions(s.Enrolments), millions(s.Updates), millions(s.ChildEnrolments), shortFloat(s.AnomalyScore), rural)
}

// NationalSummary describes the whole country for the prompt.
func NationalSummary(s models.Summary) string {
	return fmt.Sprintf("National Level Analysis. Total Enrolments: %s, Total Updates: %s, Child Coverage: %s",
		crores(s.TotalEnrolments), crores(s.TotalUpdates), millions(s.TotalChildEnrolments))
}

// ContextSummary picks the state summary when region names a known state and
// the national summary otherwise.
func ContextSummary(ds *models.Dataset, region string) string {
	if region != "" && region != models.AllIndia {
		for _, s := range ds.States {
			if s.State == region {
				return StateSummary(s)
			}
		}
	}
	return NationalSummary(ds.Summary)
}
