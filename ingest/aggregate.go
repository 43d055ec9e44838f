package ingest

import (
	"sort"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
)

const isoDate = "2006-01-02"

// aggregateStates folds the three record families into per-state totals,
// sorted by state name.
func aggregateStates(enrol, demo, bio []Record) []models.StateStats {
	byState := make(map[string]*models.StateStats)
	get := func(name string) *models.StateStats {
		s, ok := byState[name]
		if !ok {
			s = &models.StateStats{State: name}
			byState[name] = s
		}
		return s
	}

	for _, r := range enrol {
		s := get(r.State)
		s.Enrolment0To5 += r.Counts["age_0_5"]
		s.Enrolment5To17 += r.Counts["age_5_17"]
		s.Enrolment18Plus += r.Counts["age_18_greater"]
	}
	for _, r := range demo {
		get(r.State).DemographicUpdates += r.Counts["demo_age_5_17"] + r.Counts["demo_age_17_"]
	}
	for _, r := range bio {
		get(r.State).BiometricUpdates += r.Counts["bio_age_5_17"] + r.Counts["bio_age_17_"]
	}

	out := make([]models.StateStats, 0, len(byState))
	for _, s := range byState {
		s.Enrolments = s.Enrolment0To5 + s.Enrolment5To17 + s.Enrolment18Plus
		s.ChildEnrolments = s.Enrolment0To5 + s.Enrolment5To17
		s.Updates = s.DemographicUpdates + s.BiometricUpdates
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

func districtKey(state, district string) string {
	return strings.ToUpper(strings.TrimSpace(state)) + "|" + strings.ToUpper(strings.TrimSpace(district))
}

// aggregateDistricts sums enrolments and updates per state/district pair and
// keeps the limit largest districts by enrolments. Child enrolments count the
// 0-5 band only.
func aggregateDistricts(enrol, demo, bio []Record, limit int) []models.District {
	byKey := make(map[string]*models.District)
	get := func(r Record) *models.District {
		k := districtKey(r.State, r.District)
		d, ok := byKey[k]
		if !ok {
			d = &models.District{State: r.State, District: r.District}
			byKey[k] = d
		}
		return d
	}

	for _, r := range enrol {
		d := get(r)
		d.Enrolments += r.Total()
		d.ChildEnrolments += r.Counts["age_0_5"]
	}
	for _, r := range demo {
		get(r).Updates += r.Total()
	}
	for _, r := range bio {
		get(r).Updates += r.Total()
	}

	out := make([]models.District, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Enrolments != out[j].Enrolments {
			return out[i].Enrolments > out[j].Enrolments
		}
		return districtKey(out[i].State, out[i].District) < districtKey(out[j].State, out[j].District)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type seriesAcc map[string]*models.TimePoint

func (acc seriesAcc) add(date string, enrol, updates int64) {
	p, ok := acc[date]
	if !ok {
		p = &models.TimePoint{Date: date}
		acc[date] = p
	}
	p.Enrolments += enrol
	p.Updates += updates
}

// points returns the accumulated series in date order, trimmed to the last
// keep points when keep > 0.
func (acc seriesAcc) points(keep int) []models.TimePoint {
	out := make([]models.TimePoint, 0, len(acc))
	for _, p := range acc {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if keep > 0 && len(out) > keep {
		out = out[len(out)-keep:]
	}
	return out
}

// buildSeries produces the national daily series and one series per state.
func buildSeries(enrol, demo, bio []Record, keep int) ([]models.TimePoint, map[string][]models.TimePoint) {
	national := seriesAcc{}
	perState := make(map[string]seriesAcc)
	add := func(r Record, enrolments, updates int64) {
		date := r.Date.Format(isoDate)
		national.add(date, enrolments, updates)
		acc, ok := perState[r.State]
		if !ok {
			acc = seriesAcc{}
			perState[r.State] = acc
		}
		acc.add(date, enrolments, updates)
	}

	for _, r := range enrol {
		add(r, r.Total(), 0)
	}
	for _, r := range demo {
		add(r, 0, r.Total())
	}
	for _, r := range bio {
		add(r, 0, r.Total())
	}

	states := make(map[string][]models.TimePoint, len(perState))
	for name, acc := range perState {
		states[name] = acc.points(keep)
	}
	return national.points(keep), states
}
