package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Paldeepak079/AadharIQ/models"
)

const (
	SheetStates          = "States"
	SheetAnomalies       = "Anomalies"
	SheetRecommendations = "Recommendations"
	SheetDistricts       = "Districts"
)

type sheetWriter struct {
	f   *excelize.File
	err error
}

func (s *sheetWriter) row(sheet string, n int, values ...interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(sheet, cell, &values)
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// Workbook writes the dataset and its analytics report as an XLSX file.
func Workbook(out io.Writer, ds *models.Dataset, rep *models.AnalyticsReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStates); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	for _, name := range []string{SheetAnomalies, SheetRecommendations, SheetDistricts} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("workbook sheet %s: %w", name, err)
		}
	}

	w := &sheetWriter{f: f}

	w.row(SheetStates, 1, "State", "Enrolments", "Updates", "Child Enrolments", "Biometric Updates",
		"Demographic Updates", "Rural %", "Urban %", "Anomaly Score", "Saturation %")
	for i, s := range ds.States {
		w.row(SheetStates, i+2, s.State, s.Enrolments, s.Updates, s.ChildEnrolments, s.BiometricUpdates,
			s.DemographicUpdates, optional(s.RuralRatio), optional(s.UrbanRatio), s.AnomalyScore, optional(s.Saturation))
	}

	w.row(SheetAnomalies, 1, "State", "Type", "Severity", "Update Ratio", "Z Score", "Enrolments", "Updates", "Explanation")
	if rep != nil {
		for i, a := range rep.AnomalyDetection {
			w.row(SheetAnomalies, i+2, a.State, a.Type, a.Severity, a.UpdateRatio, a.ZScore, a.Enrolments, a.Updates, a.Explanation)
		}
	}

	w.row(SheetRecommendations, 1, "State", "Priority", "Category", "Action")
	if rep != nil {
		n := 2
		for _, sr := range rep.StateRecommendations {
			for _, r := range sr.Recommendations {
				w.row(SheetRecommendations, n, sr.State, r.Priority, r.Category, r.Action)
				n++
			}
		}
	}

	w.row(SheetDistricts, 1, "State", "District", "Enrolments", "Updates", "Child Enrolments", "Latitude", "Longitude", "Offices", "Anomaly Score")
	for i, d := range ds.Districts {
		w.row(SheetDistricts, i+2, d.State, d.District, d.Enrolments, d.Updates, d.ChildEnrolments,
			optional(d.Lat), optional(d.Lng), d.Offices, d.AnomalyScore)
	}

	if w.err != nil {
		return fmt.Errorf("workbook rows: %w", w.err)
	}
	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
