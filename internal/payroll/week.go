package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rudybnb/payroll-service/internal/model"
)

// WeekWindow returns the inclusive [start, end] day window of the week
// containing the given date under the policy's boundary convention.
func WeekWindow(date time.Time, pol Policy) (start, end time.Time) {
	d := dateOnly(date)

	var firstDay time.Weekday
	switch pol.Week {
	case WeekPolicyFridayEnding:
		firstDay = time.Saturday
	default:
		firstDay = time.Monday
	}

	offset := (int(d.Weekday()) - int(firstDay) + 7) % 7
	start = d.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// AggregateWeek groups priced sessions into per-contractor subtotals
// and grand totals. Sessions dated outside [weekStart, weekEnd] are
// left out. Contractor names match exactly; lines sort by name so the
// output is stable between runs.
func AggregateWeek(priced []model.PricedSession, weekStart, weekEnd time.Time) model.WeeklyEarningsReport {
	type acc struct {
		hours, gross, cis, net decimal.Decimal
		sessions               int
	}
	byContractor := make(map[string]*acc)
	var inWindow []model.PricedSession

	for _, p := range priced {
		if p.Date.Before(weekStart) || p.Date.After(weekEnd) {
			continue
		}
		inWindow = append(inWindow, p)

		a, ok := byContractor[p.Contractor]
		if !ok {
			a = &acc{}
			byContractor[p.Contractor] = a
		}
		a.hours = a.hours.Add(p.Hours)
		a.gross = a.gross.Add(p.Gross)
		a.cis = a.cis.Add(p.CisDeduction)
		a.net = a.net.Add(p.Net)
		a.sessions++
	}

	names := make([]string, 0, len(byContractor))
	for name := range byContractor {
		names = append(names, name)
	}
	sort.Strings(names)

	report := model.WeeklyEarningsReport{
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		Contractors: make([]model.ContractorWeekly, 0, len(names)),
		Sessions:    inWindow,
	}

	var totalHours, totalGross, totalCis, totalNet decimal.Decimal
	totalSessions := 0
	for _, name := range names {
		a := byContractor[name]
		report.Contractors = append(report.Contractors, model.ContractorWeekly{
			Contractor:   name,
			Hours:        a.hours.Round(2).InexactFloat64(),
			Gross:        a.gross.Round(2).InexactFloat64(),
			CisDeduction: a.cis.Round(2).InexactFloat64(),
			Net:          a.net.Round(2).InexactFloat64(),
			Sessions:     a.sessions,
		})
		totalHours = totalHours.Add(a.hours)
		totalGross = totalGross.Add(a.gross)
		totalCis = totalCis.Add(a.cis)
		totalNet = totalNet.Add(a.net)
		totalSessions += a.sessions
	}

	report.Totals = model.WeeklyTotals{
		Hours:        totalHours.Round(2).InexactFloat64(),
		Gross:        totalGross.Round(2).InexactFloat64(),
		CisDeduction: totalCis.Round(2).InexactFloat64(),
		Net:          totalNet.Round(2).InexactFloat64(),
		Sessions:     totalSessions,
	}
	return report
}
