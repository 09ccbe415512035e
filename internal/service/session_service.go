package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rudybnb/payroll-service/internal/model"
	"github.com/rudybnb/payroll-service/internal/payroll"
)

// SessionStore is the storage surface for the clock-in/clock-out
// lifecycle.
type SessionStore interface {
	GetActiveSessionByName(ctx context.Context, contractor string) (*model.WorkSession, error)
	GetPayProfileByName(ctx context.Context, name string) (*model.ContractorPayProfile, error)
	CreateSession(ctx context.Context, s *model.WorkSession) error
	CloseSession(ctx context.Context, s *model.WorkSession) error
	ListActiveSessions(ctx context.Context) ([]model.WorkSession, error)
}

type SessionService struct {
	store  SessionStore
	policy payroll.Policy
	log    zerolog.Logger
	now    func() time.Time
}

func NewSessionService(store SessionStore, policy payroll.Policy, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

type ClockInInput struct {
	ContractorName  string
	JobSiteLocation string
	Latitude        string
	Longitude       string
	Principal       model.Principal
}

type ClockOutInput struct {
	ContractorName string
	Latitude       string
	Longitude      string
	Principal      model.Principal
}

// ClockIn opens a new active session. One active session per
// contractor at a time.
func (s *SessionService) ClockIn(ctx context.Context, input ClockInInput) (*model.WorkSession, error) {
	name := strings.TrimSpace(input.ContractorName)
	if name == "" {
		return nil, fmt.Errorf("%w: contractor_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.JobSiteLocation) == "" {
		return nil, fmt.Errorf("%w: job_site_location is required", ErrInvalidInput)
	}
	if input.Principal.IsContractor() && input.Principal.ContractorName != name {
		return nil, ErrPermissionDenied
	}

	existing, err := s.store.GetActiveSessionByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyClockedIn
	}

	session := &model.WorkSession{
		ID:              uuid.New(),
		ContractorName:  name,
		JobSiteLocation: strings.TrimSpace(input.JobSiteLocation),
		StartTime:       s.now().UTC(),
		Status:          model.SessionStatusActive,
		CreatedAt:       s.now().UTC(),
	}
	if input.Latitude != "" {
		session.StartLatitude = &input.Latitude
	}
	if input.Longitude != "" {
		session.StartLongitude = &input.Longitude
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("contractor", name).
		Str("site", session.JobSiteLocation).
		Time("start", session.StartTime).
		Msg("clock-in")
	return session, nil
}

// ClockOut closes the contractor's active session, records the elapsed
// time as the authoritative total_hours, and writes the priced pay
// columns back onto the row when a pay profile exists.
func (s *SessionService) ClockOut(ctx context.Context, input ClockOutInput) (*model.WorkSession, error) {
	name := strings.TrimSpace(input.ContractorName)
	if name == "" {
		return nil, fmt.Errorf("%w: contractor_name is required", ErrInvalidInput)
	}
	if input.Principal.IsContractor() && input.Principal.ContractorName != name {
		return nil, ErrPermissionDenied
	}

	session, err := s.store.GetActiveSessionByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotClockedIn
	}

	end := s.now().UTC()
	elapsed := end.Sub(session.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	total := formatElapsed(elapsed)

	session.EndTime = &end
	session.TotalHours = &total
	session.Status = model.SessionStatusCompleted
	if input.Latitude != "" {
		session.EndLatitude = &input.Latitude
	}
	if input.Longitude != "" {
		session.EndLongitude = &input.Longitude
	}

	profile, err := s.store.GetPayProfileByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		if priced, _, ok := payroll.PriceSession(*session, *profile, s.policy); ok {
			session.HourlyRate = &profile.HourlyRate
			session.GrossPay = &priced.Gross
			session.CisDeduction = &priced.CisDeduction
			session.NetPay = &priced.Net
		}
	} else {
		s.log.Warn().Str("contractor", name).Msg("no pay profile, closing session unpriced")
	}

	if err := s.store.CloseSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("contractor", name).
		Str("total_hours", total).
		Msg("clock-out")
	return session, nil
}

// ActiveSessions lists everyone currently on the clock.
func (s *SessionService) ActiveSessions(ctx context.Context, principal model.Principal) ([]model.WorkSession, error) {
	sessions, err := s.store.ListActiveSessions(ctx)
	if err != nil {
		return nil, err
	}
	if !principal.IsContractor() {
		return sessions, nil
	}
	own := make([]model.WorkSession, 0, 1)
	for _, session := range sessions {
		if session.ContractorName == principal.ContractorName {
			own = append(own, session)
		}
	}
	return own, nil
}

func formatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
