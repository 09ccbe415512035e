package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rudybnb/payroll-service/internal/config"
)

type WeekPolicy string

const (
	// WeekPolicyISO buckets sessions into Monday–Sunday weeks.
	WeekPolicyISO WeekPolicy = "iso"
	// WeekPolicyFridayEnding buckets into Saturday–Friday weeks, the
	// convention used by the site payroll spreadsheets.
	WeekPolicyFridayEnding WeekPolicy = "friday-ending"
)

// Policy is the immutable set of pay rules the engine runs under. All
// amounts are GBP.
type Policy struct {
	FullDayHours           decimal.Decimal
	LateCutoffMinutes      int // minutes after midnight, clock-ins later than this are late
	LatePenaltyPerMinute   decimal.Decimal
	LatePenaltyCap         decimal.Decimal
	DailyMinimum           decimal.Decimal
	CisRegisteredRate      decimal.Decimal
	CisUnregisteredRate    decimal.Decimal
	Week                   WeekPolicy
	PreferStoredHours      bool
	HoursMismatchTolerance decimal.Decimal
}

// DefaultPolicy matches the firm's standing terms: 8h day, 08:15 grace
// cutoff, 50p/min penalty capped at £50, £100 daily floor, CIS 20/30.
func DefaultPolicy() Policy {
	return Policy{
		FullDayHours:           decimal.NewFromInt(8),
		LateCutoffMinutes:      8*60 + 15,
		LatePenaltyPerMinute:   decimal.NewFromFloat(0.50),
		LatePenaltyCap:         decimal.NewFromInt(50),
		DailyMinimum:           decimal.NewFromInt(100),
		CisRegisteredRate:      decimal.NewFromFloat(0.20),
		CisUnregisteredRate:    decimal.NewFromFloat(0.30),
		Week:                   WeekPolicyISO,
		PreferStoredHours:      true,
		HoursMismatchTolerance: decimal.NewFromFloat(0.05),
	}
}

// PolicyFromConfig builds a Policy from the loaded configuration.
func PolicyFromConfig(cfg config.PayrollConfig) (Policy, error) {
	cutoff, err := parseClock(cfg.LateCutoff)
	if err != nil {
		return Policy{}, fmt.Errorf("late cutoff: %w", err)
	}

	week := WeekPolicy(cfg.WeekPolicy)
	switch week {
	case WeekPolicyISO, WeekPolicyFridayEnding:
	default:
		return Policy{}, fmt.Errorf("unknown week policy %q", cfg.WeekPolicy)
	}

	return Policy{
		FullDayHours:           decimal.NewFromFloat(cfg.FullDayHours),
		LateCutoffMinutes:      cutoff,
		LatePenaltyPerMinute:   decimal.NewFromFloat(cfg.LatePenaltyPerMinute),
		LatePenaltyCap:         decimal.NewFromFloat(cfg.LatePenaltyCap),
		DailyMinimum:           decimal.NewFromFloat(cfg.DailyMinimum),
		CisRegisteredRate:      decimal.NewFromFloat(cfg.CisRegisteredRate),
		CisUnregisteredRate:    decimal.NewFromFloat(cfg.CisUnregisteredRate),
		Week:                   week,
		PreferStoredHours:      cfg.PreferStoredHours,
		HoursMismatchTolerance: decimal.NewFromFloat(cfg.HoursMismatchTolerance),
	}, nil
}

// CisRate picks the withholding rate for a registration status.
func (p Policy) CisRate(registered bool) decimal.Decimal {
	if registered {
		return p.CisRegisteredRate
	}
	return p.CisUnregisteredRate
}

func parseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	var h, m int
	if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value out of range: %q", raw)
	}
	return h*60 + m, nil
}
