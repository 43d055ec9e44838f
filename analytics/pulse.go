package analytics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

var pulseWindows = map[models.Granularity]int{
	models.Daily:   7,
	models.Monthly: 1,
}

// Pulse summarises transaction frequency (enrolments plus updates) for a
// region and marks periods running hotter than two standard deviations above
// the mean.
func Pulse(series []models.TimePoint, state string, gran models.Granularity) (*models.PulseReport, error) {
	window, ok := pulseWindows[gran]
	if !ok {
		return nil, fmt.Errorf("unknown granularity %q", gran)
	}
	enrol := resample(series, gran, func(p models.TimePoint) float64 { return float64(p.Enrolments) })
	upd := resample(series, gran, func(p models.TimePoint) float64 { return float64(p.Updates) })
	if state == "" {
		state = models.AllIndia
	}

	report := &models.PulseReport{
		State:       state,
		Granularity: gran,
		Series:      make([]models.PulsePoint, 0, len(enrol)),
	}
	if len(enrol) == 0 {
		return report, nil
	}

	label := PeriodLabel(gran)
	totals := make([]float64, len(enrol))
	for i := range enrol {
		p := models.PulsePoint{
			Date:       enrol[i].key,
			Label:      label(enrol[i].key),
			Enrolments: int64(enrol[i].value),
			Updates:    int64(upd[i].value),
		}
		p.Total = p.Enrolments + p.Updates
		totals[i] = float64(p.Total)
		report.Series = append(report.Series, p)
	}

	mean, std := stat.PopMeanStdDev(totals, nil)
	report.Average = utils.Round(mean, 2)
	peak := 0
	for i, t := range totals {
		if t > totals[peak] {
			peak = i
		}
		if std > 0 && t > mean+2*std {
			report.Series[i].Bottleneck = true
			report.Bottlenecks++
		}
	}
	peakPoint := report.Series[peak]
	report.Peak = &peakPoint

	if n := len(totals); n >= 2*window {
		var recent, previous float64
		for _, t := range totals[n-window:] {
			recent += t
		}
		for _, t := range totals[n-2*window : n-window] {
			previous += t
		}
		if previous > 0 {
			report.MomentumPercent = utils.Round((recent-previous)/previous*100, 2)
		}
	}
	return report, nil
}
