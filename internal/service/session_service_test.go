package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudybnb/payroll-service/internal/model"
	"github.com/rudybnb/payroll-service/internal/payroll"
)

type fakeSessionStore struct {
	sessions map[string]*model.WorkSession
	profiles map[string]model.ContractorPayProfile
	closed   *model.WorkSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*model.WorkSession),
		profiles: make(map[string]model.ContractorPayProfile),
	}
}

func (f *fakeSessionStore) GetActiveSessionByName(_ context.Context, contractor string) (*model.WorkSession, error) {
	s, ok := f.sessions[contractor]
	if !ok || s.Status != model.SessionStatusActive {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionStore) GetPayProfileByName(_ context.Context, name string) (*model.ContractorPayProfile, error) {
	p, ok := f.profiles[name]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeSessionStore) CreateSession(_ context.Context, s *model.WorkSession) error {
	f.sessions[s.ContractorName] = s
	return nil
}

func (f *fakeSessionStore) CloseSession(_ context.Context, s *model.WorkSession) error {
	f.sessions[s.ContractorName] = s
	f.closed = s
	return nil
}

func (f *fakeSessionStore) ListActiveSessions(context.Context) ([]model.WorkSession, error) {
	var out []model.WorkSession
	for _, s := range f.sessions {
		if s.Status == model.SessionStatusActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func newTestSessionService(store *fakeSessionStore, now time.Time) *SessionService {
	svc := NewSessionService(store, payroll.DefaultPolicy(), zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestClockInThenOut_PricesSession(t *testing.T) {
	store := newFakeSessionStore()
	store.profiles["Dalwayne"] = profile("Dalwayne", 18.75, false)

	clockIn := time.Date(2025, 8, 22, 7, 44, 0, 0, time.UTC)
	svc := newTestSessionService(store, clockIn)

	created, err := svc.ClockIn(context.Background(), ClockInInput{
		ContractorName:  "Dalwayne",
		JobSiteLocation: "ME5 9GX",
		Latitude:        "51.3396",
		Principal:       admin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusActive, created.Status)
	assert.Nil(t, created.EndTime)

	// Second clock-in while active is rejected.
	_, err = svc.ClockIn(context.Background(), ClockInInput{
		ContractorName:  "Dalwayne",
		JobSiteLocation: "ME5 9GX",
		Principal:       admin,
	})
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	svc.now = func() time.Time { return time.Date(2025, 8, 22, 17, 0, 0, 0, time.UTC) }
	closed, err := svc.ClockOut(context.Background(), ClockOutInput{
		ContractorName: "Dalwayne",
		Principal:      admin,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionStatusCompleted, closed.Status)
	require.NotNil(t, closed.TotalHours)
	assert.Equal(t, "09:16:00", *closed.TotalHours)

	// Full day at £18.75/h, on time: stored pay columns match the
	// earnings pipeline.
	require.NotNil(t, closed.GrossPay)
	assert.Equal(t, "150", closed.GrossPay.String())
	assert.Equal(t, "45", closed.CisDeduction.String())
	assert.Equal(t, "105", closed.NetPay.String())
	assert.Same(t, closed, store.closed)
}

func TestClockOut_WithoutActiveSession(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), time.Now())
	_, err := svc.ClockOut(context.Background(), ClockOutInput{ContractorName: "Dalwayne", Principal: admin})
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestClockOut_NoProfileClosesUnpriced(t *testing.T) {
	store := newFakeSessionStore()
	clockIn := time.Date(2025, 8, 22, 8, 0, 0, 0, time.UTC)
	svc := newTestSessionService(store, clockIn)

	_, err := svc.ClockIn(context.Background(), ClockInInput{
		ContractorName:  "Marius",
		JobSiteLocation: "ME5 9GX",
		Principal:       admin,
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return clockIn.Add(8 * time.Hour) }
	closed, err := svc.ClockOut(context.Background(), ClockOutInput{ContractorName: "Marius", Principal: admin})
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, closed.Status)
	assert.Nil(t, closed.GrossPay)
}

func TestClockIn_ContractorCannotClockOthers(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore(), time.Now())
	me := model.Principal{Role: model.RoleContractor, ContractorName: "Earl"}

	_, err := svc.ClockIn(context.Background(), ClockInInput{
		ContractorName:  "Dalwayne",
		JobSiteLocation: "ME5 9GX",
		Principal:       me,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
