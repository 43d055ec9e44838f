package models

type TimePoint struct {
	Date       string `json:"date"`
	Enrolments int64  `json:"enrolments"`
	Updates    int64  `json:"updates,omitempty"`
}

type VelocityPoint struct {
	Date        string `json:"date"`
	Enrollments int64  `json:"enrollments"`
}

type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type VelocitySummary struct {
	TotalUrban      int64     `json:"totalUrban"`
	TotalRural      int64     `json:"totalRural"`
	UrbanDataPoints int       `json:"urbanDataPoints"`
	RuralDataPoints int       `json:"ruralDataPoints"`
	DateRange       DateRange `json:"dateRange"`
}

type VelocitySeries struct {
	Urban   []VelocityPoint `json:"urban"`
	Rural   []VelocityPoint `json:"rural"`
	Summary VelocitySummary `json:"summary"`
}

type VelocityReport struct {
	AllIndia  VelocitySeries            `json:"allIndia"`
	States    map[string]VelocitySeries `json:"states"`
	StateList []string                  `json:"stateList"`
}
