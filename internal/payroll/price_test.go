package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudybnb/payroll-service/internal/model"
)

func testProfile(rate float64, registered bool) model.ContractorPayProfile {
	return model.ContractorPayProfile{
		ID:            uuid.New(),
		Name:          "Dalwayne",
		HourlyRate:    decimal.NewFromFloat(rate),
		CisRegistered: registered,
	}
}

func completedSession(start, end time.Time) model.WorkSession {
	return model.WorkSession{
		ID:              uuid.New(),
		ContractorName:  "Dalwayne",
		JobSiteLocation: "ME5 9GX",
		StartTime:       start,
		EndTime:         &end,
		Status:          model.SessionStatusCompleted,
	}
}

func TestPriceSession_FullDayOnTime(t *testing.T) {
	// £18.75/h, not CIS registered, 07:44-17:00: flat daily rate.
	start := time.Date(2025, 8, 22, 7, 44, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 17, 0, 0, 0, time.UTC)

	priced, diags, ok := PriceSession(completedSession(start, end), testProfile(18.75, false), DefaultPolicy())
	require.True(t, ok)
	assert.Empty(t, diags)

	assert.True(t, priced.IsFullDay)
	assert.Equal(t, "150", priced.Gross.String())
	assert.Equal(t, "45", priced.CisDeduction.String())
	assert.Equal(t, "105", priced.Net.String())
	assert.Equal(t, "8", priced.Hours.String())
	assert.True(t, priced.LatePenalty.IsZero())
}

func TestPriceSession_FullDayLateStart(t *testing.T) {
	// 08:30 clock-in is 15 minutes past the 08:15 cutoff.
	start := time.Date(2025, 8, 22, 8, 30, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 17, 0, 0, 0, time.UTC)

	priced, _, ok := PriceSession(completedSession(start, end), testProfile(18.75, false), DefaultPolicy())
	require.True(t, ok)

	assert.True(t, priced.IsFullDay)
	assert.Equal(t, "7.5", priced.LatePenalty.String())
	assert.Equal(t, "142.5", priced.Gross.String())
	assert.Equal(t, "42.75", priced.CisDeduction.String())
	assert.Equal(t, "99.75", priced.Net.String())
}

func TestPriceSession_PartialDayNoPenalty(t *testing.T) {
	// 4 hours starting well past the cutoff: pro-rated hourly, never
	// penalized.
	start := time.Date(2025, 8, 22, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 13, 0, 0, 0, time.UTC)

	priced, _, ok := PriceSession(completedSession(start, end), testProfile(18.75, false), DefaultPolicy())
	require.True(t, ok)

	assert.False(t, priced.IsFullDay)
	assert.True(t, priced.LatePenalty.IsZero())
	assert.Equal(t, "75", priced.Gross.String())
	assert.Equal(t, "22.5", priced.CisDeduction.String())
	assert.Equal(t, "52.5", priced.Net.String())
}

func TestPriceSession_ExtremeLatenessCapped(t *testing.T) {
	// 200 minutes late on a full day: penalty caps at £50, so gross is
	// £100 and the floor is not what produced it.
	start := time.Date(2025, 8, 22, 11, 35, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 19, 35, 0, 0, time.UTC)

	priced, _, ok := PriceSession(completedSession(start, end), testProfile(18.75, false), DefaultPolicy())
	require.True(t, ok)

	assert.Equal(t, "50", priced.LatePenalty.String())
	assert.Equal(t, "100", priced.Gross.String())
}

func TestApplyLatePenalty_FloorTriggersOnlyBelowMinimum(t *testing.T) {
	pol := DefaultPolicy()
	pol.DailyMinimum = decimal.NewFromInt(120)

	start := time.Date(2025, 8, 22, 11, 35, 0, 0, time.UTC)
	gross := decimal.NewFromInt(150)

	adjusted, penalty := ApplyLatePenalty(start, gross, true, pol)
	assert.Equal(t, "120", adjusted.String())
	// Effective deduction shrinks to whatever the floor allows.
	assert.Equal(t, "30", penalty.String())
}

func TestApplyLatePenalty_OnTimeUnchanged(t *testing.T) {
	start := time.Date(2025, 8, 22, 8, 15, 0, 0, time.UTC)
	gross := decimal.NewFromInt(150)

	adjusted, penalty := ApplyLatePenalty(start, gross, true, DefaultPolicy())
	assert.True(t, adjusted.Equal(gross))
	assert.True(t, penalty.IsZero())
}

func TestApplyCIS_NoPennyLeakage(t *testing.T) {
	pol := DefaultPolicy()
	for _, raw := range []float64{150, 142.50, 75, 0.01, 33.335, 99.99, 1234.567} {
		for _, registered := range []bool{true, false} {
			gross, deduction, net := ApplyCIS(decimal.NewFromFloat(raw), registered, pol)
			assert.True(t, deduction.Add(net).Equal(gross),
				"gross %v registered %v: %s + %s != %s", raw, registered, deduction, net, gross)
			assert.True(t, deduction.Equal(gross.Mul(pol.CisRate(registered)).Round(2)))
		}
	}
}

func TestNormalize_SpansMidnight(t *testing.T) {
	start := time.Date(2025, 8, 22, 22, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 23, 6, 0, 0, 0, time.UTC)

	hours, diags, ok := Normalize(completedSession(start, end), DefaultPolicy())
	require.True(t, ok)
	assert.Empty(t, diags)
	assert.Equal(t, "8", hours.String())
}

func TestNormalize_EndBeforeStart(t *testing.T) {
	start := time.Date(2025, 8, 22, 17, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 8, 0, 0, 0, time.UTC)

	hours, diags, ok := Normalize(completedSession(start, end), DefaultPolicy())
	assert.False(t, ok)
	assert.True(t, hours.IsZero())
	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagInvalidSession, diags[0].Code)
}

func TestNormalize_StoredHoursAuthoritative(t *testing.T) {
	start := time.Date(2025, 8, 22, 7, 44, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 12, 44, 0, 0, time.UTC) // delta says 5h
	s := completedSession(start, end)
	stored := "08:11:19"
	s.TotalHours = &stored

	hours, diags, ok := Normalize(s, DefaultPolicy())
	require.True(t, ok)
	// Stored wins, but the disagreement is flagged.
	assert.Equal(t, "8.19", hours.Round(2).String())
	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagHoursMismatch, diags[0].Code)
}

func TestNormalize_DerivedWhenStoredNotPreferred(t *testing.T) {
	pol := DefaultPolicy()
	pol.PreferStoredHours = false

	start := time.Date(2025, 8, 22, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 12, 0, 0, 0, time.UTC)
	s := completedSession(start, end)
	stored := "08:00:00"
	s.TotalHours = &stored

	hours, _, ok := Normalize(s, pol)
	require.True(t, ok)
	assert.Equal(t, "4", hours.String())
}

func TestPriceSession_RejectsNonPositiveRate(t *testing.T) {
	start := time.Date(2025, 8, 22, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 22, 16, 0, 0, 0, time.UTC)

	_, diags, ok := PriceSession(completedSession(start, end), testProfile(0, false), DefaultPolicy())
	assert.False(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagInvalidRate, diags[0].Code)
}

func TestParseElapsed(t *testing.T) {
	for raw, want := range map[string]string{
		"08:00:00": "8",
		"08:30:00": "8.5",
		"00:15:00": "0.25",
		"10:45":    "10.75",
	} {
		got, err := parseElapsed(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got.String(), raw)
	}

	for _, raw := range []string{"", "abc", "8h", "08:75:00"} {
		_, err := parseElapsed(raw)
		assert.Error(t, err, raw)
	}
}
