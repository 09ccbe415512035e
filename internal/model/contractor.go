package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractorPayProfile holds the rate and CIS status used to price a
// contractor's sessions. Read-only from the payroll engine's side.
type ContractorPayProfile struct {
	ID            uuid.UUID
	Name          string
	HourlyRate    decimal.Decimal
	CisRegistered bool
}

// DailyRate is the flat full-day amount: hourly rate times the standard
// day length.
func (p ContractorPayProfile) DailyRate(dayHours decimal.Decimal) decimal.Decimal {
	return p.HourlyRate.Mul(dayHours)
}
