// Package report renders exports of the dataset and of generated insights:
// a policy PDF, a forecast chart and an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const (
	pageMargin   = 20.0
	headerHeight = 40.0
	hindiFont    = "devanagari"
)

type rgb [3]int

var (
	colorBackground = rgb{18, 18, 18}
	colorOrange     = rgb{255, 153, 51}
	colorSection    = rgb{66, 135, 245}
	colorText       = rgb{255, 255, 255}
	colorMuted      = rgb{170, 170, 170}
	colorFooter     = rgb{100, 100, 100}
)

var severityColors = map[string]rgb{
	"critical": {239, 68, 68},
	"high":     {251, 146, 60},
	"medium":   {252, 211, 77},
	"low":      {74, 222, 128},
}

var ist = time.FixedZone("IST", 5*3600+1800)

// PDFRequest is the content of a policy report.
type PDFRequest struct {
	Title     string                  `json:"title"`
	StateName string                  `json:"stateName,omitempty"`
	Summary   *models.Summary         `json:"summary,omitempty"`
	Insights  *models.InsightResponse `json:"insights,omitempty"`
}

// PDFRenderer writes policy reports. Hindi text is only rendered when a
// UTF-8 font with Devanagari glyphs is configured.
type PDFRenderer struct {
	fontPath string
	now      func() time.Time
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath, now: time.Now}
}

// FileName is the download name for a report generated at t.
func FileName(stateName string, t time.Time) string {
	if stateName == "" {
		return fmt.Sprintf("AadhaarIQ_Report_%d.pdf", t.UnixMilli())
	}
	return fmt.Sprintf("AadhaarIQ_%s_%d.pdf", strings.Join(strings.Fields(stateName), "_"), t.UnixMilli())
}

type pdfWriter struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func (w *pdfWriter) text(s string, size float64, bold bool, c rgb) {
	style := ""
	if bold {
		style = "B"
	}
	w.pdf.SetFont("Helvetica", style, size)
	w.lines(w.tr(s), size, c)
}

func (w *pdfWriter) unicode(s string, size float64, c rgb) {
	w.pdf.SetFont(hindiFont, "", size)
	w.lines(s, size, c)
}

func (w *pdfWriter) lines(s string, size float64, c rgb) {
	w.pdf.SetTextColor(c[0], c[1], c[2])
	w.pdf.MultiCell(w.width, size*0.5, s, "", "L", false)
	w.pdf.Ln(5)
}

func (w *pdfWriter) gap() {
	w.pdf.Ln(5)
}

// Render writes the report as PDF to out.
func (r *PDFRenderer) Render(out io.Writer, req PDFRequest) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pageW, pageH := pdf.GetPageSize()
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("{nb}")

	hindi := r.fontPath != "" && req.Insights != nil && req.Insights.InsightHindi != ""
	if hindi {
		pdf.AddUTF8Font(hindiFont, "", r.fontPath)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(colorBackground[0], colorBackground[1], colorBackground[2])
		pdf.Rect(0, 0, pageW, pageH, "F")
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(colorFooter[0], colorFooter[1], colorFooter[2])
		pdf.CellFormat(0, 5, fmt.Sprintf("Powered by AadhaarIQ | Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(colorOrange[0], colorOrange[1], colorOrange[2])
	pdf.Rect(0, 0, pageW, headerHeight, "F")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(pageMargin, 20, "AadhaarIQ")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pageMargin, 30, "AI-Powered Aadhaar Analytics Platform")
	pdf.SetY(50)

	w := &pdfWriter{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: pageW - 2*pageMargin,
	}

	title := req.Title
	if title == "" {
		title = "Aadhaar Policy Report"
	}
	w.text(title, 18, true, colorOrange)
	if req.StateName != "" {
		w.text("State Analysis: "+req.StateName, 14, true, colorText)
	}
	w.text("Generated: "+r.now().In(ist).Format("02/01/2006, 3:04:05 pm"), 9, false, colorMuted)
	w.gap()

	if s := req.Summary; s != nil {
		w.text("Executive Summary", 14, true, colorOrange)
		w.text("Total Enrolments: "+utils.FormatCrore(s.TotalEnrolments), 11, false, colorText)
		w.text("Total Updates: "+utils.FormatCrore(s.TotalUpdates), 11, false, colorText)
		w.text("Child Enrolments: "+utils.FormatMillion(s.TotalChildEnrolments), 11, false, colorText)
		w.text(fmt.Sprintf("Total States Analyzed: %d", s.TotalStates), 11, false, colorText)
		w.gap()
	}

	if in := req.Insights; in != nil {
		w.text("AI-Generated Policy Insights", 14, true, colorOrange)
		if in.Insight != "" {
			w.text(in.Insight, 10, false, colorText)
		}
		if m := in.Metrics; m != nil {
			w.gap()
			w.text("Regional Strategic Metrics", 12, true, colorSection)
			w.text(fmt.Sprintf("• Saturation Gap: %g%%", m.Gap), 10, false, colorText)
			w.text(fmt.Sprintf("• Anomaly Sensitivity: %g", m.Anomaly), 10, false, colorText)
			w.text("• Saturation Status: "+m.Status, 10, false, colorText)
		}
		if hindi {
			w.gap()
			w.unicode("हिंदी अनुवाद", 12, colorSection)
			w.unicode(in.InsightHindi, 10, colorText)
		}
		if len(in.Tags) > 0 {
			w.gap()
			w.text("Identified Trends", 12, true, colorSection)
			for _, t := range in.Tags {
				c, ok := severityColors[t.Severity]
				if !ok {
					c = severityColors["low"]
				}
				w.text(fmt.Sprintf("• %s (%s, %.0f%% confidence)", strings.ToUpper(t.Type), t.Severity, t.Confidence*100), 10, false, c)
			}
		}
		if len(in.ActionableSteps) > 0 {
			w.gap()
			w.text("Actionable Recommendations", 12, true, colorSection)
			for i, step := range in.ActionableSteps {
				w.text(fmt.Sprintf("%d. %s", i+1, step), 10, false, colorText)
			}
		}
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
