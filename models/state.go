package models

type StateStats struct {
	State              string   `json:"state"`
	Enrolments         int64    `json:"enrolments"`
	Updates            int64    `json:"updates"`
	ChildEnrolments    int64    `json:"childEnrolments"`
	Enrolment0To5      int64    `json:"enrolment_0_5"`
	Enrolment5To17     int64    `json:"enrolment_5_17"`
	Enrolment18Plus    int64    `json:"enrolment_18_plus"`
	BiometricUpdates   int64    `json:"biometricUpdates"`
	DemographicUpdates int64    `json:"demographicUpdates"`
	RuralRatio         *float64 `json:"ruralRatio"`
	UrbanRatio         *float64 `json:"urbanRatio"`
	AnomalyScore       float64  `json:"anomalyScore"`
	Saturation         *float64 `json:"saturation,omitempty"`
}

// UpdateRatio is updates per enrolment with the +1 smoothing used by the
// z-score detector.
func (s StateStats) UpdateRatio() float64 {
	return float64(s.Updates) / float64(s.Enrolments+1)
}

type StateCentroid struct {
	Lat       float64     `json:"lat"`
	Lng       float64     `json:"lng"`
	Bounds    StateBounds `json:"bounds"`
	ZoomScale int         `json:"zoomScale"`
}

type StateBounds struct {
	LatMin float64 `json:"latMin"`
	LatMax float64 `json:"latMax"`
	LngMin float64 `json:"lngMin"`
	LngMax float64 `json:"lngMax"`
}
