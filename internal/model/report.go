package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiagnosticCode string

const (
	DiagInvalidSession       DiagnosticCode = "invalid_session"
	DiagUnresolvedContractor DiagnosticCode = "unresolved_contractor"
	DiagInvalidRate          DiagnosticCode = "invalid_rate"
	DiagHoursMismatch        DiagnosticCode = "hours_mismatch"
)

// Diagnostic flags a session that could not be priced (or priced only
// with a caveat). Diagnostics ride alongside the report; they never
// abort it.
type Diagnostic struct {
	Code       DiagnosticCode `json:"code"`
	SessionID  uuid.UUID      `json:"session_id"`
	Contractor string         `json:"contractor"`
	Detail     string         `json:"detail"`
}

// PricedSession is one work session run through the full pricing
// pipeline. Amounts are 2dp decimals; CIS rounding happens here so that
// weekly totals are sums of already-rounded values.
type PricedSession struct {
	SessionID    uuid.UUID
	Contractor   string
	Date         time.Time
	Hours        decimal.Decimal
	IsFullDay    bool
	LatePenalty  decimal.Decimal
	Gross        decimal.Decimal
	CisDeduction decimal.Decimal
	Net          decimal.Decimal
}

// ContractorWeekly is one contractor's line in the weekly report.
type ContractorWeekly struct {
	Contractor   string  `json:"contractor"`
	Hours        float64 `json:"hours"`
	Gross        float64 `json:"gross"`
	CisDeduction float64 `json:"cis_deduction"`
	Net          float64 `json:"net"`
	Sessions     int     `json:"sessions"`
}

type WeeklyTotals struct {
	Hours        float64 `json:"hours"`
	Gross        float64 `json:"gross"`
	CisDeduction float64 `json:"cis_deduction"`
	Net          float64 `json:"net"`
	Sessions     int     `json:"sessions"`
}

type WeeklyEarningsReport struct {
	WeekStart   time.Time          `json:"week_start"`
	WeekEnd     time.Time          `json:"week_end"`
	Contractors []ContractorWeekly `json:"contractors"`
	Totals      WeeklyTotals       `json:"totals"`
	Sessions    []PricedSession    `json:"-"`
}
