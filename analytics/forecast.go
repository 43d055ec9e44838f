package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

var ErrInsufficientData = errors.New("insufficient time series data for forecasting")

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"

	bandZ = 1.96

	forecastCitation  = "UIDAI Aadhaar enrolment open data (data.gov.in), aggregated by processing date"
	forecastAlgorithm = "Ordinary least squares linear trend with 95% residual band"
)

type horizon struct {
	minPoints int
	steps     int
	window    int
	phrase    string
}

var horizons = map[models.Granularity]horizon{
	models.Daily:   {minPoints: 10, steps: 30, window: 7, phrase: "over next 30 days"},
	models.Monthly: {minPoints: 3, steps: 3, window: 3, phrase: "over next 3 months"},
}

type datedValue struct {
	at    time.Time
	key   string
	value float64
}

// resample parses, sorts and, for monthly granularity, sums the series by
// calendar month. Points with unparsable dates are skipped.
func resample(series []models.TimePoint, gran models.Granularity, value func(models.TimePoint) float64) []datedValue {
	out := make([]datedValue, 0, len(series))
	for _, p := range series {
		t, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			continue
		}
		out = append(out, datedValue{at: t, key: p.Date, value: value(p)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	if gran != models.Monthly {
		return out
	}

	months := make([]datedValue, 0)
	for _, dv := range out {
		key := dv.at.Format(monthLayout)
		if n := len(months); n > 0 && months[n-1].key == key {
			months[n-1].value += dv.value
			continue
		}
		first := time.Date(dv.at.Year(), dv.at.Month(), 1, 0, 0, 0, 0, time.UTC)
		months = append(months, datedValue{at: first, key: key, value: dv.value})
	}
	return months
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// PeriodLabel renders a chart label for a series date key.
func PeriodLabel(gran models.Granularity) func(string) string {
	return func(key string) string {
		if gran == models.Monthly {
			if t, err := time.Parse(monthLayout, key); err == nil {
				return t.Format("Jan 2006")
			}
			return key
		}
		if t, err := time.Parse(dateLayout, key); err == nil {
			return t.Format("02 Jan")
		}
		return key
	}
}

// Interpret turns a growth percentage into the dashboard sentence.
func Interpret(growth float64, phrase string) string {
	switch {
	case growth > 0:
		return fmt.Sprintf("📈 Enrolment velocity increasing by %.1f%% %s", growth, phrase)
	case growth < -10:
		return fmt.Sprintf("⚠️ Declining trend (%.1f%%) - Consider launching re-enrollment drives", growth)
	default:
		return fmt.Sprintf("➡️ Stable enrolment pattern with %.1f%% variance", math.Abs(growth))
	}
}

// Forecast fits a linear trend to an enrolment series and projects it
// forward. The returned merged series pairs history with the projection.
func Forecast(series []models.TimePoint, state string, gran models.Granularity) (*models.ForecastResponse, error) {
	h, ok := horizons[gran]
	if !ok {
		return nil, fmt.Errorf("unknown granularity %q", gran)
	}
	points := resample(series, gran, func(p models.TimePoint) float64 { return float64(p.Enrolments) })
	if len(points) < h.minPoints {
		return nil, fmt.Errorf("%w: need %d %s points, have %d", ErrInsufficientData, h.minPoints, gran, len(points))
	}

	origin := points[0].at
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if gran == models.Monthly {
			xs[i] = float64(monthsBetween(origin, p.at))
		} else {
			xs[i] = p.at.Sub(origin).Hours() / 24
		}
		ys[i] = p.value
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	var sse, ape float64
	var apeN int
	for i := range xs {
		fitted := intercept + slope*xs[i]
		res := ys[i] - fitted
		sse += res * res
		if ys[i] > 0 {
			ape += math.Abs(res) / ys[i]
			apeN++
		}
	}
	stderr := 0.0
	if len(xs) > 2 {
		stderr = math.Sqrt(sse / float64(len(xs)-2))
	}
	confidence := 0.0
	if apeN > 0 {
		confidence = utils.Round(math.Max(0, math.Min(100, (1-ape/float64(apeN))*100)), 1)
	}

	last := points[len(points)-1]
	lastX := xs[len(xs)-1]
	projected := make([]BandPoint, 0, h.steps)
	var forecastSum float64
	for k := 1; k <= h.steps; k++ {
		x := lastX + float64(k)
		v := intercept + slope*x
		forecastSum += v

		var key string
		if gran == models.Monthly {
			key = last.at.AddDate(0, k, 0).Format(monthLayout)
		} else {
			key = last.at.AddDate(0, 0, k).Format(dateLayout)
		}
		projected = append(projected, BandPoint{
			Date:      key,
			Predicted: utils.Round(v, 0),
			Upper:     utils.Round(v+bandZ*stderr, 0),
			Lower:     utils.Round(math.Max(0, v-bandZ*stderr), 0),
		})
	}

	window := h.window
	if window > len(ys) {
		window = len(ys)
	}
	avgCurrent := meanOf(ys[len(ys)-window:])
	avgForecast := forecastSum / float64(h.steps)
	growth := 0.0
	if avgCurrent != 0 {
		growth = utils.Round((avgForecast-avgCurrent)/avgCurrent*100, 2)
	}

	actual := make([]models.SeriesPoint, len(points))
	for i, p := range points {
		actual[i] = models.SeriesPoint{Date: p.key, Value: p.value}
	}

	if state == "" {
		state = models.AllIndia
	}
	return &models.ForecastResponse{
		ForecastSummary: models.ForecastSummary{
			DailyGrowthRate: int64(slope),
			CurrentAverage:  int64(avgCurrent),
			ForecastAverage: int64(avgForecast),
			GrowthPercent:   growth,
			Interpretation:  Interpret(growth, h.phrase),
		},
		State:           state,
		Granularity:     gran,
		MergedData:      MergeSeries(actual, projected, PeriodLabel(gran)),
		ConfidenceScore: confidence,
		ModelMetadata: models.ModelMetadata{
			Citation:   forecastCitation,
			InputRange: fmt.Sprintf("%s to %s (%d %s points)", actual[0].Date, actual[len(actual)-1].Date, len(actual), gran),
			Algorithm:  forecastAlgorithm,
		},
	}, nil
}

// ForecastSummaryFor runs the daily national forecast and keeps only the
// headline numbers. It returns nil when the series is too short.
func ForecastSummaryFor(series []models.TimePoint) *models.ForecastSummary {
	f, err := Forecast(series, models.AllIndia, models.Daily)
	if err != nil {
		return nil
	}
	s := f.ForecastSummary
	return &s
}
