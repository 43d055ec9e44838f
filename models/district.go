package models

type District struct {
	State           string   `json:"state"`
	District        string   `json:"district"`
	Enrolments      int64    `json:"enrolments"`
	Updates         int64    `json:"updates"`
	ChildEnrolments int64    `json:"child_enrolments"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Offices         int      `json:"offices,omitempty"`
	Density         float64  `json:"density,omitempty"`
	AnomalyScore    float64  `json:"anomaly_score"`
}

// Located reports whether the district carries a usable coordinate pair.
func (d District) Located() bool {
	return d.Lat != nil && d.Lng != nil
}

type NearbyDistrict struct {
	District
	DistanceKm float64 `json:"distance_km"`
}
