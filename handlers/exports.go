package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gonum.org/v1/plot/vg"

	"github.com/Paldeepak079/AadharIQ/middleware"
	"github.com/Paldeepak079/AadharIQ/report"
)

const (
	maxPDFBody  = 1 << 20
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

func writeFile(w http.ResponseWriter, contentType, name string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	if name != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	body.WriteTo(w)
}

// PolicyPDF renders the policy report for the posted insight. The dataset
// summary is used when the request carries none.
func (a *API) PolicyPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r)

	var req report.PDFRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPDFBody)).Decode(&req); err != nil {
		a.errors.WriteValidationError(w, "Invalid request format", requestID)
		return
	}
	if req.Summary == nil {
		if snap, ok := a.holder.Current(); ok {
			summary := snap.Dataset.Summary
			req.Summary = &summary
		}
	}

	var buf bytes.Buffer
	if err := a.pdf.Render(&buf, req); err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	writeFile(w, "application/pdf", report.FileName(req.StateName, a.now()), &buf)
}

func (a *API) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Workbook(&buf, snap.Dataset, snap.Report); err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	name := fmt.Sprintf("AadhaarIQ_Export_%d.xlsx", a.now().UnixMilli())
	writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name, &buf)
}

// ForecastChart draws the forecast for the requested state and granularity.
func (a *API) ForecastChart(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	series, state, gran, ok := a.seriesRequest(w, r, snap)
	if !ok {
		return
	}
	fc, err := a.forecast(snap, series, state, gran)
	if err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.ForecastChart(&buf, fc, chartWidth, chartHeight); err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	writeFile(w, "image/png", "", &buf)
}
