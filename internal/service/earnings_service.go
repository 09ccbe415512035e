package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rudybnb/payroll-service/internal/model"
	"github.com/rudybnb/payroll-service/internal/payroll"
)

// PayrollStore is the slice of storage the earnings computation reads.
type PayrollStore interface {
	ListCompletedSessions(ctx context.Context, start, endExclusive time.Time, contractor string) ([]model.WorkSession, error)
	ListPayProfiles(ctx context.Context) ([]model.ContractorPayProfile, error)
	ListActiveSessions(ctx context.Context) ([]model.WorkSession, error)
}

type ExcelGenerator interface {
	Generate(report model.WeeklyEarningsReport, diags []model.Diagnostic) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.WeeklyEarningsReport) ([]byte, error)
}

type EarningsService struct {
	store  PayrollStore
	excel  ExcelGenerator
	pdf    PDFGenerator
	policy payroll.Policy
}

func NewEarningsService(store PayrollStore, excel ExcelGenerator, pdf PDFGenerator, policy payroll.Policy) *EarningsService {
	return &EarningsService{
		store:  store,
		excel:  excel,
		pdf:    pdf,
		policy: policy,
	}
}

type ComputeInput struct {
	WeekEnding time.Time
	Contractor string // optional single-contractor filter
	Principal  model.Principal
}

type ComputeResult struct {
	Report      model.WeeklyEarningsReport
	Diagnostics []model.Diagnostic
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ComputeWeeklyEarnings prices every completed session in the week
// containing the week-ending date and aggregates per contractor.
// Sessions that cannot be priced are reported as diagnostics alongside
// the report, never as a hard failure.
func (s *EarningsService) ComputeWeeklyEarnings(ctx context.Context, input ComputeInput) (*ComputeResult, error) {
	if input.WeekEnding.IsZero() {
		return nil, fmt.Errorf("%w: week_ending is required", ErrInvalidInput)
	}

	filter := strings.TrimSpace(input.Contractor)
	if input.Principal.IsContractor() {
		// Contractors only ever see their own line.
		if filter != "" && filter != input.Principal.ContractorName {
			return nil, ErrPermissionDenied
		}
		filter = input.Principal.ContractorName
	}

	weekStart, weekEnd := payroll.WeekWindow(input.WeekEnding, s.policy)
	endExclusive := weekEnd.Add(24 * time.Hour)

	sessions, err := s.store.ListCompletedSessions(ctx, weekStart, endExclusive, filter)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.ListPayProfiles(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]model.ContractorPayProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}

	var priced []model.PricedSession
	var diags []model.Diagnostic
	for _, session := range sessions {
		profile, ok := byName[session.ContractorName]
		if !ok {
			diags = append(diags, model.Diagnostic{
				Code:       model.DiagUnresolvedContractor,
				SessionID:  session.ID,
				Contractor: session.ContractorName,
				Detail:     "no pay profile for contractor",
			})
			continue
		}

		ps, sessionDiags, ok := payroll.PriceSession(session, profile, s.policy)
		diags = append(diags, sessionDiags...)
		if !ok {
			continue
		}
		priced = append(priced, ps)
	}

	report := payroll.AggregateWeek(priced, weekStart, weekEnd)
	return &ComputeResult{Report: report, Diagnostics: diags}, nil
}

// ExportWeeklyEarnings renders the weekly report as a multi-sheet
// workbook for the site spreadsheets.
func (s *EarningsService) ExportWeeklyEarnings(ctx context.Context, input ComputeInput) (*ExportResult, error) {
	result, err := s.ComputeWeeklyEarnings(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(result.Report, result.Diagnostics)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: s.buildFileName(result.Report, input.Contractor, "xlsx"),
		Content:  content,
	}, nil
}

// ExportPayslips renders per-contractor payslip pages as a PDF.
func (s *EarningsService) ExportPayslips(ctx context.Context, input ComputeInput) (*ExportResult, error) {
	result, err := s.ComputeWeeklyEarnings(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(result.Report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: s.buildFileName(result.Report, input.Contractor, "pdf"),
		Content:  content,
	}, nil
}

type WeeklySummary struct {
	WeekStart         time.Time `json:"week_start"`
	WeekEnd           time.Time `json:"week_end"`
	TotalHours        float64   `json:"total_hours"`
	TotalGross        float64   `json:"total_gross"`
	TotalCisDeduction float64   `json:"total_cis_deduction"`
	TotalNet          float64   `json:"total_net"`
	ActiveContractors int       `json:"active_contractors"`
	ActiveSessions    int       `json:"active_sessions"`
	UnpricedSessions  int       `json:"unpriced_sessions"`
}

// CurrentWeekSummary is the dashboard headline: this week's labour cost
// plus who is on site right now.
func (s *EarningsService) CurrentWeekSummary(ctx context.Context, now time.Time, principal model.Principal) (*WeeklySummary, error) {
	result, err := s.ComputeWeeklyEarnings(ctx, ComputeInput{WeekEnding: now, Principal: principal})
	if err != nil {
		return nil, err
	}

	active, err := s.store.ListActiveSessions(ctx)
	if err != nil {
		return nil, err
	}

	unpriced := 0
	for _, d := range result.Diagnostics {
		if d.Code != model.DiagHoursMismatch {
			unpriced++
		}
	}

	return &WeeklySummary{
		WeekStart:         result.Report.WeekStart,
		WeekEnd:           result.Report.WeekEnd,
		TotalHours:        result.Report.Totals.Hours,
		TotalGross:        result.Report.Totals.Gross,
		TotalCisDeduction: result.Report.Totals.CisDeduction,
		TotalNet:          result.Report.Totals.Net,
		ActiveContractors: len(result.Report.Contractors),
		ActiveSessions:    len(active),
		UnpricedSessions:  unpriced,
	}, nil
}

func (s *EarningsService) buildFileName(report model.WeeklyEarningsReport, contractor, ext string) string {
	period := fmt.Sprintf("%s-%s", report.WeekStart.Format("20060102"), report.WeekEnd.Format("20060102"))
	if name := sanitizeFileName(contractor); name != "" {
		return fmt.Sprintf("earnings-%s-%s.%s", name, period, ext)
	}
	return fmt.Sprintf("earnings-weekly-%s.%s", period, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
