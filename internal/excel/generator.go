package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rudybnb/payroll-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

const (
	summarySheet     = "Summary"
	contractorsSheet = "Contractor Totals"
	dailySheet       = "Daily Breakdown"
	sessionsSheet    = "Sessions"
)

// Generate renders the weekly earnings report as a four-sheet workbook:
// summary, per-contractor totals, per-day breakdown and session detail.
func (g *Generator) Generate(report model.WeeklyEarningsReport, diags []model.Diagnostic) ([]byte, error) {
	file := excelize.NewFile()

	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, report, diags); err != nil {
		return nil, err
	}

	for _, sheet := range []string{contractorsSheet, dailySheet, sessionsSheet} {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	if err := g.writeContractors(file, report); err != nil {
		return nil, err
	}
	if err := g.writeDaily(file, report); err != nil {
		return nil, err
	}
	if err := g.writeSessions(file, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, report model.WeeklyEarningsReport, diags []model.Diagnostic) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	unpriced := 0
	for _, d := range diags {
		if d.Code != model.DiagHoursMismatch {
			unpriced++
		}
	}

	set("A1", "Week start")
	set("B1", formatDate(report.WeekStart))
	set("A2", "Week end")
	set("B2", formatDate(report.WeekEnd))
	set("A3", "Contractors")
	set("B3", len(report.Contractors))
	set("A4", "Sessions")
	set("B4", report.Totals.Sessions)
	set("A5", "Total hours")
	set("B5", report.Totals.Hours)
	set("A6", "Gross pay")
	set("B6", report.Totals.Gross)
	set("A7", "CIS deducted")
	set("B7", report.Totals.CisDeduction)
	set("A8", "Net pay")
	set("B8", report.Totals.Net)
	set("A9", "Sessions not priced")
	set("B9", unpriced)

	row := 11
	if len(diags) > 0 {
		set(fmt.Sprintf("A%d", row), "Data quality warnings")
		row++
		for _, d := range diags {
			set(fmt.Sprintf("A%d", row), string(d.Code))
			set(fmt.Sprintf("B%d", row), d.Contractor)
			set(fmt.Sprintf("C%d", row), d.Detail)
			row++
		}
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 20)
	_ = file.SetColWidth(summarySheet, "C", "C", 60)
	return nil
}

func (g *Generator) writeContractors(file *excelize.File, report model.WeeklyEarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(contractorsSheet, cell, value)
	}

	headers := []string{"Contractor", "Hours", "Gross", "CIS", "Net", "Sessions"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, line := range report.Contractors {
		row := i + 2
		set(fmt.Sprintf("A%d", row), line.Contractor)
		set(fmt.Sprintf("B%d", row), line.Hours)
		set(fmt.Sprintf("C%d", row), line.Gross)
		set(fmt.Sprintf("D%d", row), line.CisDeduction)
		set(fmt.Sprintf("E%d", row), line.Net)
		set(fmt.Sprintf("F%d", row), line.Sessions)
	}

	totalRow := len(report.Contractors) + 2
	set(fmt.Sprintf("A%d", totalRow), "TOTAL")
	set(fmt.Sprintf("B%d", totalRow), report.Totals.Hours)
	set(fmt.Sprintf("C%d", totalRow), report.Totals.Gross)
	set(fmt.Sprintf("D%d", totalRow), report.Totals.CisDeduction)
	set(fmt.Sprintf("E%d", totalRow), report.Totals.Net)
	set(fmt.Sprintf("F%d", totalRow), report.Totals.Sessions)

	_ = file.SetColWidth(contractorsSheet, "A", "A", 28)
	_ = file.SetColWidth(contractorsSheet, "B", "F", 12)
	return nil
}

func (g *Generator) writeDaily(file *excelize.File, report model.WeeklyEarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(dailySheet, cell, value)
	}

	type dayTotal struct {
		hours, gross, net decimal.Decimal
		sessions          int
	}
	byDay := make(map[time.Time]*dayTotal)
	for _, s := range report.Sessions {
		d, ok := byDay[s.Date]
		if !ok {
			d = &dayTotal{}
			byDay[s.Date] = d
		}
		d.hours = d.hours.Add(s.Hours)
		d.gross = d.gross.Add(s.Gross)
		d.net = d.net.Add(s.Net)
		d.sessions++
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	headers := []string{"Date", "Hours", "Gross", "Net", "Sessions"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, d := range days {
		row := i + 2
		totals := byDay[d]
		set(fmt.Sprintf("A%d", row), formatDate(d))
		set(fmt.Sprintf("B%d", row), totals.hours.Round(2).InexactFloat64())
		set(fmt.Sprintf("C%d", row), totals.gross.InexactFloat64())
		set(fmt.Sprintf("D%d", row), totals.net.InexactFloat64())
		set(fmt.Sprintf("E%d", row), totals.sessions)
	}

	_ = file.SetColWidth(dailySheet, "A", "A", 16)
	_ = file.SetColWidth(dailySheet, "B", "E", 12)
	return nil
}

func (g *Generator) writeSessions(file *excelize.File, report model.WeeklyEarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sessionsSheet, cell, value)
	}

	headers := []string{"Date", "Contractor", "Hours", "Full day", "Late penalty", "Gross", "CIS", "Net"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, s := range report.Sessions {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatDate(s.Date))
		set(fmt.Sprintf("B%d", row), s.Contractor)
		set(fmt.Sprintf("C%d", row), s.Hours.InexactFloat64())
		set(fmt.Sprintf("D%d", row), s.IsFullDay)
		set(fmt.Sprintf("E%d", row), s.LatePenalty.InexactFloat64())
		set(fmt.Sprintf("F%d", row), s.Gross.InexactFloat64())
		set(fmt.Sprintf("G%d", row), s.CisDeduction.InexactFloat64())
		set(fmt.Sprintf("H%d", row), s.Net.InexactFloat64())
	}

	_ = file.SetColWidth(sessionsSheet, "A", "A", 16)
	_ = file.SetColWidth(sessionsSheet, "B", "B", 28)
	_ = file.SetColWidth(sessionsSheet, "C", "H", 12)
	return nil
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
