package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionStatusActive          SessionStatus = "active"
	SessionStatusCompleted       SessionStatus = "completed"
	SessionStatusCancelled       SessionStatus = "cancelled"
	SessionStatusTemporarilyAway SessionStatus = "temporarily_away"
)

// WorkSession is one clock-in/clock-out record. Sessions join to pay
// profiles by contractor name; the name is the key the mobile clients
// send, profiles carry the stable id.
type WorkSession struct {
	ID              uuid.UUID
	ContractorName  string
	JobSiteLocation string
	StartTime       time.Time
	EndTime         *time.Time
	// TotalHours is the elapsed time recorded at clock-out, "HH:MM:SS".
	// When present it is the authoritative duration source.
	TotalHours     *string
	StartLatitude  *string
	StartLongitude *string
	EndLatitude    *string
	EndLongitude   *string
	Status         SessionStatus
	// Pay columns written back when the session is closed.
	HourlyRate   *decimal.Decimal
	GrossPay     *decimal.Decimal
	CisDeduction *decimal.Decimal
	NetPay       *decimal.Decimal
	CreatedAt    time.Time
}

func (s WorkSession) Completed() bool {
	return s.Status == SessionStatusCompleted && s.EndTime != nil
}
