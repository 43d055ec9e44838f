package models

import "strings"

// AllIndia is the region name used for national aggregates.
const AllIndia = "All India"

type Summary struct {
	TotalEnrolments         int64  `json:"totalEnrolments"`
	TotalUpdates            int64  `json:"totalUpdates"`
	TotalChildEnrolments    int64  `json:"totalChildEnrolments"`
	TotalBiometricUpdates   int64  `json:"totalBiometricUpdates"`
	TotalDemographicUpdates int64  `json:"totalDemographicUpdates"`
	TotalStates             int    `json:"totalStates"`
	TotalDistricts          int    `json:"totalDistricts"`
	LastUpdated             string `json:"lastUpdated"`
}

type Dataset struct {
	Summary         Summary                  `json:"summary"`
	States          []StateStats             `json:"states"`
	Districts       []District               `json:"districts"`
	TimeSeries      []TimePoint              `json:"timeSeries"`
	StateTimeSeries map[string][]TimePoint   `json:"stateTimeSeries,omitempty"`
	Velocity        *VelocityReport          `json:"velocity,omitempty"`
	Centroids       map[string]StateCentroid `json:"centroids,omitempty"`
}

// Summarize recomputes the totals from the state and district slices.
func Summarize(states []StateStats, districts []District, lastUpdated string) Summary {
	s := Summary{
		TotalStates:    len(states),
		TotalDistricts: len(districts),
		LastUpdated:    lastUpdated,
	}
	for _, st := range states {
		s.TotalEnrolments += st.Enrolments
		s.TotalUpdates += st.Updates
		s.TotalChildEnrolments += st.ChildEnrolments
		s.TotalBiometricUpdates += st.BiometricUpdates
		s.TotalDemographicUpdates += st.DemographicUpdates
	}
	return s
}

// FindState returns the first state whose name contains query,
// case-insensitively.
func (d *Dataset) FindState(query string) (StateStats, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, s := range d.States {
		if strings.Contains(strings.ToLower(s.State), q) {
			return s, true
		}
	}
	return StateStats{}, false
}

// DistrictsIn filters districts by a case-insensitive state substring. An
// empty filter returns every district.
func (d *Dataset) DistrictsIn(state string) []District {
	if state == "" {
		return d.Districts
	}
	q := strings.ToLower(state)
	out := make([]District, 0)
	for _, dist := range d.Districts {
		if strings.Contains(strings.ToLower(dist.State), q) {
			out = append(out, dist)
		}
	}
	return out
}

// SeriesFor returns the daily series for a region. All India, or an empty
// region, selects the national series.
func (d *Dataset) SeriesFor(region string) ([]TimePoint, bool) {
	if region == "" || strings.EqualFold(region, AllIndia) {
		return d.TimeSeries, true
	}
	if s, ok := d.StateTimeSeries[region]; ok {
		return s, true
	}
	for name, s := range d.StateTimeSeries {
		if strings.EqualFold(name, region) {
			return s, true
		}
	}
	return nil, false
}
