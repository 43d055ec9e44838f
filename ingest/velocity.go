package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

// Area is the urban/rural class of a pincode.
type Area string

const (
	Rural Area = "Rural"
	Urban Area = "Urban"
)

// ClassifyOffice maps a post office type to an area: branch offices are
// rural, sub and head offices urban.
func ClassifyOffice(officeType string) (Area, bool) {
	switch strings.ToUpper(strings.TrimSpace(officeType)) {
	case "BO":
		return Rural, true
	case "SO", "HO":
		return Urban, true
	}
	return "", false
}

// ReadPincodeAreas reads a pincode mapping CSV (pincode, officetype columns).
// The first classification seen for a pincode wins.
func ReadPincodeAreas(r io.Reader) (map[string]Area, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read pincode header: %w", err)
	}
	pinCol, typeCol := -1, -1
	for i, h := range header {
		switch StandardizeColumn(h) {
		case "pincode":
			pinCol = i
		case "officetype":
			typeCol = i
		}
	}
	if pinCol < 0 || typeCol < 0 {
		return nil, fmt.Errorf("pincode mapping needs pincode and officetype columns")
	}

	areas := make(map[string]Area)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil || pinCol >= len(row) || typeCol >= len(row) {
			continue
		}
		pin := strings.TrimSpace(row[pinCol])
		area, ok := ClassifyOffice(row[typeCol])
		if pin == "" || !ok {
			continue
		}
		if _, seen := areas[pin]; !seen {
			areas[pin] = area
		}
	}
	return areas, nil
}

type areaAcc struct {
	urban map[string]int64
	rural map[string]int64
}

func newAreaAcc() *areaAcc {
	return &areaAcc{urban: map[string]int64{}, rural: map[string]int64{}}
}

func (a *areaAcc) add(area Area, date string, n int64) {
	if area == Urban {
		a.urban[date] += n
	} else {
		a.rural[date] += n
	}
}

func velocityPoints(m map[string]int64) ([]models.VelocityPoint, int64) {
	out := make([]models.VelocityPoint, 0, len(m))
	var total int64
	for date, n := range m {
		out = append(out, models.VelocityPoint{Date: date, Enrollments: n})
		total += n
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, total
}

func (a *areaAcc) series() models.VelocitySeries {
	urban, totalUrban := velocityPoints(a.urban)
	rural, totalRural := velocityPoints(a.rural)
	s := models.VelocitySeries{
		Urban: urban,
		Rural: rural,
		Summary: models.VelocitySummary{
			TotalUrban:      totalUrban,
			TotalRural:      totalRural,
			UrbanDataPoints: len(urban),
			RuralDataPoints: len(rural),
		},
	}
	if len(urban) > 0 {
		start, end := urban[0].Date, urban[len(urban)-1].Date
		s.Summary.DateRange = models.DateRange{Start: &start, End: &end}
	}
	return s
}

// BuildVelocity splits enrolments into urban and rural daily series using the
// pincode classification. Rows whose pincode is unclassified are skipped.
func BuildVelocity(enrol []Record, areas map[string]Area) *models.VelocityReport {
	national := newAreaAcc()
	perState := make(map[string]*areaAcc)
	for _, r := range enrol {
		area, ok := areas[r.Pincode]
		if !ok {
			continue
		}
		date := r.Date.Format(isoDate)
		n := r.Total()
		national.add(area, date, n)
		acc, ok := perState[r.State]
		if !ok {
			acc = newAreaAcc()
			perState[r.State] = acc
		}
		acc.add(area, date, n)
	}

	report := &models.VelocityReport{
		AllIndia:  national.series(),
		States:    make(map[string]models.VelocitySeries, len(perState)),
		StateList: make([]string, 0, len(perState)),
	}
	for state, acc := range perState {
		report.States[state] = acc.series()
		report.StateList = append(report.StateList, state)
	}
	sort.Strings(report.StateList)
	return report
}

// ApplyRuralRatios sets ruralRatio and urbanRatio percentages on every state
// that has classified enrolments.
func ApplyRuralRatios(states []models.StateStats, v *models.VelocityReport) {
	if v == nil {
		return
	}
	for i := range states {
		series, ok := v.States[states[i].State]
		if !ok {
			continue
		}
		total := series.Summary.TotalRural + series.Summary.TotalUrban
		if total == 0 {
			continue
		}
		rural := utils.Round(float64(series.Summary.TotalRural)/float64(total)*100, 2)
		urban := utils.Round(100-rural, 2)
		states[i].RuralRatio = &rural
		states[i].UrbanRatio = &urban
	}
}
