package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudybnb/payroll-service/internal/model"
	"github.com/rudybnb/payroll-service/internal/payroll"
)

type fakeStore struct {
	sessions []model.WorkSession
	profiles []model.ContractorPayProfile
}

func (f *fakeStore) ListCompletedSessions(_ context.Context, start, endExclusive time.Time, contractor string) ([]model.WorkSession, error) {
	var out []model.WorkSession
	for _, s := range f.sessions {
		if !s.Completed() {
			continue
		}
		if s.StartTime.Before(start) || !s.StartTime.Before(endExclusive) {
			continue
		}
		if contractor != "" && s.ContractorName != contractor {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) ListPayProfiles(context.Context) ([]model.ContractorPayProfile, error) {
	return f.profiles, nil
}

func (f *fakeStore) ListActiveSessions(context.Context) ([]model.WorkSession, error) {
	var out []model.WorkSession
	for _, s := range f.sessions {
		if s.Status == model.SessionStatusActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func profile(name string, rate float64, registered bool) model.ContractorPayProfile {
	return model.ContractorPayProfile{
		ID:            uuid.New(),
		Name:          name,
		HourlyRate:    decimal.NewFromFloat(rate),
		CisRegistered: registered,
	}
}

func session(name string, start, end time.Time) model.WorkSession {
	return model.WorkSession{
		ID:             uuid.New(),
		ContractorName: name,
		StartTime:      start,
		EndTime:        &end,
		Status:         model.SessionStatusCompleted,
	}
}

func at(day int, h, m int) time.Time {
	return time.Date(2025, 8, day, h, m, 0, 0, time.UTC)
}

var admin = model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

func newTestService(store *fakeStore) *EarningsService {
	return NewEarningsService(store, nil, nil, payroll.DefaultPolicy())
}

func TestComputeWeeklyEarnings_TwoContractors(t *testing.T) {
	store := &fakeStore{
		profiles: []model.ContractorPayProfile{
			profile("Dalwayne", 18.75, false),
			profile("Earl", 19.50, true),
		},
		sessions: []model.WorkSession{
			session("Dalwayne", at(18, 7, 44), at(18, 17, 0)), // Monday, full day on time
			session("Dalwayne", at(19, 8, 30), at(19, 17, 0)), // Tuesday, 15 min late
			session("Earl", at(19, 8, 15), at(19, 17, 30)),    // on the cutoff exactly
			session("Earl", at(20, 9, 0), at(20, 13, 0)),      // 4h partial
		},
	}

	result, err := newTestService(store).ComputeWeeklyEarnings(context.Background(), ComputeInput{
		WeekEnding: at(24, 0, 0),
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	require.Len(t, result.Report.Contractors, 2)

	dalwayne := result.Report.Contractors[0]
	assert.Equal(t, "Dalwayne", dalwayne.Contractor)
	assert.Equal(t, 292.50, dalwayne.Gross) // 150 + 142.50
	assert.Equal(t, 87.75, dalwayne.CisDeduction)
	assert.Equal(t, 204.75, dalwayne.Net)
	assert.Equal(t, 2, dalwayne.Sessions)

	earl := result.Report.Contractors[1]
	assert.Equal(t, 234.0, earl.Gross) // 156 + 78
	assert.Equal(t, 46.80, earl.CisDeduction)
	assert.Equal(t, 187.20, earl.Net)

	assert.InDelta(t, dalwayne.Net+earl.Net, result.Report.Totals.Net, 1e-9)
	assert.Equal(t, 4, result.Report.Totals.Sessions)
}

func TestComputeWeeklyEarnings_UnknownContractorSkippedWithDiagnostic(t *testing.T) {
	store := &fakeStore{
		profiles: []model.ContractorPayProfile{profile("Dalwayne", 18.75, false)},
		sessions: []model.WorkSession{
			session("Dalwayne", at(18, 7, 44), at(18, 17, 0)),
			session("Marius", at(18, 8, 0), at(18, 16, 0)),
		},
	}

	result, err := newTestService(store).ComputeWeeklyEarnings(context.Background(), ComputeInput{
		WeekEnding: at(24, 0, 0),
		Principal:  admin,
	})
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, model.DiagUnresolvedContractor, result.Diagnostics[0].Code)
	assert.Equal(t, "Marius", result.Diagnostics[0].Contractor)

	// Valid sessions still price.
	require.Len(t, result.Report.Contractors, 1)
	assert.Equal(t, 150.0, result.Report.Contractors[0].Gross)
}

func TestComputeWeeklyEarnings_EmptyWeek(t *testing.T) {
	store := &fakeStore{profiles: []model.ContractorPayProfile{profile("Dalwayne", 18.75, false)}}

	result, err := newTestService(store).ComputeWeeklyEarnings(context.Background(), ComputeInput{
		WeekEnding: at(24, 0, 0),
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Report.Contractors)
	assert.Zero(t, result.Report.Totals.Net)
	assert.Empty(t, result.Diagnostics)
}

func TestComputeWeeklyEarnings_ContractorScopedToOwnLine(t *testing.T) {
	store := &fakeStore{
		profiles: []model.ContractorPayProfile{
			profile("Dalwayne", 18.75, false),
			profile("Earl", 19.50, true),
		},
		sessions: []model.WorkSession{
			session("Dalwayne", at(18, 7, 44), at(18, 17, 0)),
			session("Earl", at(18, 8, 0), at(18, 17, 0)),
		},
	}
	svc := newTestService(store)
	me := model.Principal{UserID: uuid.New(), Role: model.RoleContractor, ContractorName: "Earl"}

	result, err := svc.ComputeWeeklyEarnings(context.Background(), ComputeInput{
		WeekEnding: at(24, 0, 0),
		Principal:  me,
	})
	require.NoError(t, err)
	require.Len(t, result.Report.Contractors, 1)
	assert.Equal(t, "Earl", result.Report.Contractors[0].Contractor)

	_, err = svc.ComputeWeeklyEarnings(context.Background(), ComputeInput{
		WeekEnding: at(24, 0, 0),
		Contractor: "Dalwayne",
		Principal:  me,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestComputeWeeklyEarnings_MissingWeekEnding(t *testing.T) {
	_, err := newTestService(&fakeStore{}).ComputeWeeklyEarnings(context.Background(), ComputeInput{Principal: admin})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeWeeklyEarnings_Idempotent(t *testing.T) {
	store := &fakeStore{
		profiles: []model.ContractorPayProfile{profile("Dalwayne", 18.75, false)},
		sessions: []model.WorkSession{
			session("Dalwayne", at(18, 7, 44), at(18, 17, 0)),
			session("Dalwayne", at(19, 8, 30), at(19, 17, 0)),
		},
	}
	svc := newTestService(store)
	input := ComputeInput{WeekEnding: at(24, 0, 0), Principal: admin}

	first, err := svc.ComputeWeeklyEarnings(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.ComputeWeeklyEarnings(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Report.Contractors, second.Report.Contractors)
	assert.Equal(t, first.Report.Totals, second.Report.Totals)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestCurrentWeekSummary(t *testing.T) {
	active := model.WorkSession{
		ID:             uuid.New(),
		ContractorName: "Earl",
		StartTime:      at(20, 8, 0),
		Status:         model.SessionStatusActive,
	}
	store := &fakeStore{
		profiles: []model.ContractorPayProfile{profile("Dalwayne", 18.75, false)},
		sessions: []model.WorkSession{
			session("Dalwayne", at(18, 7, 44), at(18, 17, 0)),
			session("Marius", at(19, 8, 0), at(19, 16, 0)), // no profile
			active,
		},
	}

	summary, err := newTestService(store).CurrentWeekSummary(context.Background(), at(20, 12, 0), admin)
	require.NoError(t, err)
	assert.Equal(t, 150.0, summary.TotalGross)
	assert.Equal(t, 1, summary.ActiveContractors)
	assert.Equal(t, 1, summary.ActiveSessions)
	assert.Equal(t, 1, summary.UnpricedSessions)
}
