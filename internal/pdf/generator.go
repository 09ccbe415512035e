package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rudybnb/payroll-service/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders one payslip page per contractor plus a leading
// summary page for the week.
func (g *Generator) Generate(report model.WeeklyEarningsReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)

	g.addSummaryPage(pdf, report)
	for _, line := range report.Contractors {
		g.addPayslipPage(pdf, report, line)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) addSummaryPage(pdf *gofpdf.Fpdf, report model.WeeklyEarningsReport) {
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Weekly Earnings Report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Week %s - %s", formatDate(report.WeekStart), formatDate(report.WeekEnd)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	headers := []string{"Contractor", "Hours", "Gross", "CIS", "Net", "Sessions"}
	colWidths := []float64{60, 24, 24, 24, 24, 24}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, line := range report.Contractors {
		drawTableRow(pdf, g.fontName, []string{
			line.Contractor,
			formatAmount(line.Hours),
			formatAmount(line.Gross),
			formatAmount(line.CisDeduction),
			formatAmount(line.Net),
			fmt.Sprintf("%d", line.Sessions),
		}, colWidths, false)
	}

	drawTableRow(pdf, g.fontName, []string{
		"TOTAL",
		formatAmount(report.Totals.Hours),
		formatAmount(report.Totals.Gross),
		formatAmount(report.Totals.CisDeduction),
		formatAmount(report.Totals.Net),
		fmt.Sprintf("%d", report.Totals.Sessions),
	}, colWidths, true)
}

func (g *Generator) addPayslipPage(pdf *gofpdf.Fpdf, report model.WeeklyEarningsReport, line model.ContractorWeekly) {
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "CIS Payment Statement", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Week ending %s", formatDate(report.WeekEnd)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, line.Contractor, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "", 11)
	rows := [][2]string{
		{"Hours worked", formatAmount(line.Hours)},
		{"Sessions", fmt.Sprintf("%d", line.Sessions)},
		{"Gross pay", "GBP " + formatAmount(line.Gross)},
		{"CIS deduction", "GBP " + formatAmount(line.CisDeduction)},
		{"Net pay", "GBP " + formatAmount(line.Net)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row[1], "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 9)
	pdf.CellFormat(0, 5, "Deductions made under the Construction Industry Scheme.", "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, font string, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(font, style, 10)
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
