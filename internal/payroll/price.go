package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rudybnb/payroll-service/internal/model"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Normalize produces the hours-worked figure for one session. The
// stored total_hours recorded at clock-out is the source of truth when
// the policy prefers it; the start/end delta is the fallback. A session
// whose end precedes its start yields zero hours and ok=false instead
// of a negative duration. Warning diagnostics may accompany a usable
// result.
func Normalize(s model.WorkSession, pol Policy) (hours decimal.Decimal, diags []model.Diagnostic, ok bool) {
	var derived decimal.Decimal
	hasDerived := false
	if s.EndTime != nil {
		delta := s.EndTime.Sub(s.StartTime)
		if delta < 0 {
			return decimal.Zero, []model.Diagnostic{{
				Code:       model.DiagInvalidSession,
				SessionID:  s.ID,
				Contractor: s.ContractorName,
				Detail:     fmt.Sprintf("end %s precedes start %s", s.EndTime.Format(time.RFC3339), s.StartTime.Format(time.RFC3339)),
			}}, false
		}
		derived = decimal.NewFromInt(int64(delta / time.Second)).Div(secondsPerHour)
		hasDerived = true
	}

	var stored decimal.Decimal
	hasStored := false
	if s.TotalHours != nil && *s.TotalHours != "" {
		parsed, err := parseElapsed(*s.TotalHours)
		if err != nil {
			diags = append(diags, model.Diagnostic{
				Code:       model.DiagHoursMismatch,
				SessionID:  s.ID,
				Contractor: s.ContractorName,
				Detail:     fmt.Sprintf("unparseable total_hours %q, using start/end delta", *s.TotalHours),
			})
		} else {
			stored = parsed
			hasStored = true
		}
	}

	if hasStored && hasDerived && stored.Sub(derived).Abs().GreaterThan(pol.HoursMismatchTolerance) {
		diags = append(diags, model.Diagnostic{
			Code:       model.DiagHoursMismatch,
			SessionID:  s.ID,
			Contractor: s.ContractorName,
			Detail:     fmt.Sprintf("stored %sh disagrees with start/end delta %sh", stored.Round(2), derived.Round(2)),
		})
	}

	switch {
	case hasStored && (pol.PreferStoredHours || !hasDerived):
		return stored, diags, true
	case hasDerived:
		return derived, diags, true
	default:
		return decimal.Zero, append(diags, model.Diagnostic{
			Code:       model.DiagInvalidSession,
			SessionID:  s.ID,
			Contractor: s.ContractorName,
			Detail:     "no end time and no recorded total_hours",
		}), false
	}
}

// ResolveRate prices hours worked against a profile. Hours at or past
// the full-day threshold pay the flat daily rate; anything short of it
// pays pro-rated hourly. Hours beyond the threshold earn nothing extra.
func ResolveRate(hours decimal.Decimal, profile model.ContractorPayProfile, pol Policy) (gross decimal.Decimal, isFullDay bool) {
	isFullDay = hours.GreaterThanOrEqual(pol.FullDayHours)
	if isFullDay {
		return profile.DailyRate(pol.FullDayHours), true
	}
	paidHours := decimal.Min(hours, pol.FullDayHours)
	return paidHours.Mul(profile.HourlyRate), false
}

// ApplyLatePenalty deducts for a clock-in past the grace cutoff. Only
// full-day sessions are penalized; partial days already pay by the
// hour. The deduction is capped and the result never drops below the
// guaranteed daily minimum.
func ApplyLatePenalty(start time.Time, gross decimal.Decimal, isFullDay bool, pol Policy) (adjusted, penalty decimal.Decimal) {
	if !isFullDay {
		return gross, decimal.Zero
	}

	startSeconds := int64(start.Hour())*3600 + int64(start.Minute())*60 + int64(start.Second())
	cutoffSeconds := int64(pol.LateCutoffMinutes) * 60
	if startSeconds <= cutoffSeconds {
		return gross, decimal.Zero
	}

	minutesLate := decimal.NewFromInt(startSeconds - cutoffSeconds).Div(decimal.NewFromInt(60))
	penalty = decimal.Min(minutesLate.Mul(pol.LatePenaltyPerMinute), pol.LatePenaltyCap)
	adjusted = decimal.Max(pol.DailyMinimum, gross.Sub(penalty))
	return adjusted, gross.Sub(adjusted)
}

// ApplyCIS withholds the Construction Industry Scheme deduction.
// Rounding happens here, once, so that weekly totals are sums of
// already-rounded session values: deduction + net == rounded gross
// exactly, no penny leakage.
func ApplyCIS(gross decimal.Decimal, registered bool, pol Policy) (rounded, deduction, net decimal.Decimal) {
	rounded = gross.Round(2)
	deduction = rounded.Mul(pol.CisRate(registered)).Round(2)
	net = rounded.Sub(deduction)
	return rounded, deduction, net
}

// PriceSession runs one completed session through the full pipeline:
// normalize, resolve rate, late penalty, CIS. ok is false when the
// session cannot be priced at all; warning diagnostics may accompany a
// priced session.
func PriceSession(s model.WorkSession, profile model.ContractorPayProfile, pol Policy) (model.PricedSession, []model.Diagnostic, bool) {
	if profile.HourlyRate.LessThanOrEqual(decimal.Zero) {
		return model.PricedSession{}, []model.Diagnostic{{
			Code:       model.DiagInvalidRate,
			SessionID:  s.ID,
			Contractor: s.ContractorName,
			Detail:     fmt.Sprintf("hourly rate %s is not positive", profile.HourlyRate),
		}}, false
	}

	hours, diags, ok := Normalize(s, pol)
	if !ok {
		return model.PricedSession{}, diags, false
	}

	raw, isFullDay := ResolveRate(hours, profile, pol)
	adjusted, penalty := ApplyLatePenalty(s.StartTime, raw, isFullDay, pol)
	gross, deduction, net := ApplyCIS(adjusted, profile.CisRegistered, pol)

	return model.PricedSession{
		SessionID:    s.ID,
		Contractor:   s.ContractorName,
		Date:         dateOnly(s.StartTime),
		Hours:        decimal.Min(hours, pol.FullDayHours).Round(2),
		IsFullDay:    isFullDay,
		LatePenalty:  penalty.Round(2),
		Gross:        gross,
		CisDeduction: deduction,
		Net:          net,
	}, diags, true
}

func parseElapsed(raw string) (decimal.Decimal, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(raw, "%d:%d:%d", &h, &m, &sec); err != nil {
		// Older clients recorded "HH:MM" without seconds.
		if _, err2 := fmt.Sscanf(raw, "%d:%d", &h, &m); err2 != nil {
			return decimal.Zero, fmt.Errorf("expected HH:MM:SS, got %q", raw)
		}
		sec = 0
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return decimal.Zero, fmt.Errorf("elapsed value out of range: %q", raw)
	}
	total := int64(h)*3600 + int64(m)*60 + int64(sec)
	return decimal.NewFromInt(total).Div(secondsPerHour), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
