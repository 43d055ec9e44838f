package analytics

import (
	"sort"

	"github.com/Paldeepak079/AadharIQ/models"
)

// BandPoint is a predicted value with its confidence interval.
type BandPoint struct {
	Date      string
	Predicted float64
	Upper     float64
	Lower     float64
}

// MergeSeries joins actual and predicted series on date. Dates covered by
// only one series carry null for the other. The last actual point is also
// stamped as a predicted value so the two chart lines meet.
func MergeSeries(actual []models.SeriesPoint, predicted []BandPoint, label func(string) string) []models.MergedPoint {
	byDate := make(map[string]*models.MergedPoint, len(actual)+len(predicted))
	point := func(date string) *models.MergedPoint {
		if p, ok := byDate[date]; ok {
			return p
		}
		p := &models.MergedPoint{Date: date, Label: date}
		if label != nil {
			p.Label = label(date)
		}
		byDate[date] = p
		return p
	}

	for _, a := range actual {
		v := a.Value
		point(a.Date).Actual = &v
	}
	for _, f := range predicted {
		p := point(f.Date)
		pred, up, lo := f.Predicted, f.Upper, f.Lower
		p.Predicted, p.Upper, p.Lower = &pred, &up, &lo
	}

	if len(actual) > 0 {
		last := actual[len(actual)-1]
		p := byDate[last.Date]
		if p.Predicted == nil {
			v := last.Value
			p.Predicted, p.Upper, p.Lower = &v, &v, &v
		}
	}

	out := make([]models.MergedPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
