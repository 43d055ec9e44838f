// Package analytics turns an Aadhaar dataset into the derived views served by
// the API: anomaly scores, saturation, forecasts, clusters and
// recommendations.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const (
	// Enrolment floor applied to a state's own ratio.
	minScoringEnrolments = 1000

	flagThreshold     = 0.5
	criticalThreshold = 0.8
	maxFlagged        = 5
	surgeMultiplier   = 30

	zThreshold         = 2.0
	zCriticalThreshold = 3.0
	maxAnomalies       = 10
)

// DedupeStates keeps the first record for each trimmed state name.
func DedupeStates(states []models.StateStats) []models.StateStats {
	seen := make(map[string]struct{}, len(states))
	out := make([]models.StateStats, 0, len(states))
	for _, s := range states {
		name := strings.TrimSpace(s.State)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		s.State = name
		out = append(out, s)
	}
	return out
}

// NationalUpdateRatio is total updates over total enrolments, with the
// denominator floored at one.
func NationalUpdateRatio(states []models.StateStats) float64 {
	var enrol, upd int64
	for _, s := range states {
		enrol += s.Enrolments
		upd += s.Updates
	}
	return float64(upd) / math.Max(float64(enrol), 1)
}

// AnomalyScore measures how far a state's update ratio sits from the national
// ratio. A deviation of 200% or more scores 1.
func AnomalyScore(s models.StateStats, national float64) float64 {
	if national <= 0 {
		return 0
	}
	ratio := float64(s.Updates) / math.Max(float64(s.Enrolments), minScoringEnrolments)
	deviation := math.Abs(ratio-national) / national
	return math.Min(deviation/2, 1)
}

// ScoreStates de-duplicates states and fills AnomalyScore on each.
func ScoreStates(states []models.StateStats) []models.StateStats {
	out := DedupeStates(states)
	national := NationalUpdateRatio(out)
	for i := range out {
		out[i].AnomalyScore = AnomalyScore(out[i], national)
	}
	return out
}

// AnomalyScores reports every state's score and the flagged subset.
func AnomalyScores(states []models.StateStats) models.AnomalyScores {
	scored := ScoreStates(states)
	national := NationalUpdateRatio(scored)

	res := models.AnomalyScores{
		NationalUpdateRatio: utils.Round(national, 4),
		States:              make([]models.StateScore, 0, len(scored)),
		Insights:            FlagAnomalies(scored),
	}
	for _, s := range scored {
		res.States = append(res.States, models.StateScore{
			State:        s.State,
			UpdateRatio:  utils.Round(float64(s.Updates)/math.Max(float64(s.Enrolments), minScoringEnrolments), 2),
			AnomalyScore: utils.Round(s.AnomalyScore, 4),
		})
	}
	return res
}

// FlagAnomalies lists the most deviant scored states as dashboard insights.
func FlagAnomalies(scored []models.StateStats) []models.AnomalyInsight {
	flagged := make([]models.StateStats, 0)
	for _, s := range scored {
		if s.AnomalyScore > flagThreshold {
			flagged = append(flagged, s)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].AnomalyScore > flagged[j].AnomalyScore
	})
	if len(flagged) > maxFlagged {
		flagged = flagged[:maxFlagged]
	}

	out := make([]models.AnomalyInsight, 0, len(flagged))
	for i, s := range flagged {
		kind := "SOCIETAL"
		if s.AnomalyScore > criticalThreshold {
			kind = "CRITICAL"
		}
		pattern := "Low Enrolment Velocity."
		if s.Updates > s.Enrolments*surgeMultiplier {
			pattern = "High Update Surge."
		}
		out = append(out, models.AnomalyInsight{
			ID:          i + 1,
			Type:        kind,
			Title:       s.State + ": Unusual Activity Pattern",
			Description: fmt.Sprintf("Deviation from national trend: %.0f%%. %s", s.AnomalyScore*100, pattern),
			Region:      s.State,
			Score:       utils.Round(s.AnomalyScore, 4),
		})
	}
	return out
}

// DetectAnomalies flags states whose update ratio lies more than two sample
// standard deviations from the mean.
func DetectAnomalies(states []models.StateStats) []models.Anomaly {
	ratios := make([]float64, len(states))
	for i, s := range states {
		ratios[i] = s.UpdateRatio()
	}
	z, ok := sampleZScores(ratios)
	if !ok {
		return []models.Anomaly{}
	}

	type candidate struct {
		state models.StateStats
		ratio float64
		z     float64
	}
	var found []candidate
	for i, s := range states {
		if math.Abs(z[i]) > zThreshold {
			found = append(found, candidate{state: s, ratio: ratios[i], z: z[i]})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].ratio > found[j].ratio })
	if len(found) > maxAnomalies {
		found = found[:maxAnomalies]
	}

	out := make([]models.Anomaly, 0, len(found))
	for _, c := range found {
		a := models.Anomaly{
			State:       c.state.State,
			Type:        "LOW_UPDATE_VELOCITY",
			Severity:    "HIGH",
			UpdateRatio: utils.Round(c.ratio, 2),
			ZScore:      utils.Round(c.z, 2),
			Enrolments:  c.state.Enrolments,
			Updates:     c.state.Updates,
		}
		if c.z > 0 {
			a.Type = "HIGH_UPDATE_VELOCITY"
		}
		if math.Abs(c.z) > zCriticalThreshold {
			a.Severity = "CRITICAL"
		}
		out = append(out, a)
	}
	return out
}

// Explain attaches the human readable explanation for each anomaly.
func Explain(anomalies []models.Anomaly) []models.Anomaly {
	out := make([]models.Anomaly, len(anomalies))
	for i, a := range anomalies {
		a.Explanation = ExplainRatio(a.State, a.UpdateRatio)
		out[i] = a
	}
	return out
}

func ExplainRatio(state string, ratio float64) string {
	switch {
	case ratio > 50:
		return fmt.Sprintf("⚠️ %s is processing %.0fx more updates than enrolments, indicating intensive re-validation campaign or data migration activity.", state, ratio)
	case ratio > 20:
		return fmt.Sprintf("📊 %s shows high update activity (%.0fx ratio), suggesting active demographic update drives.", state, ratio)
	default:
		return fmt.Sprintf("✓ %s maintains healthy update-to-enrolment ratio of %.1fx.", state, ratio)
	}
}
