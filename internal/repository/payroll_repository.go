package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rudybnb/payroll-service/internal/model"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

const sessionColumns = `
	id, contractor_name, job_site_location, start_time, end_time, total_hours,
	start_latitude, start_longitude, end_latitude, end_longitude, status,
	hourly_rate, gross_pay, cis_deduction, net_pay, created_at
`

// ListCompletedSessions returns completed sessions whose start falls in
// [start, endExclusive). An empty contractor matches everyone.
func (r *PayrollRepository) ListCompletedSessions(ctx context.Context, start, endExclusive time.Time, contractor string) ([]model.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE status = 'completed'
		  AND start_time >= ?
		  AND start_time < ?
	`
	args := []interface{}{start, endExclusive}
	if contractor != "" {
		query += ` AND contractor_name = ?`
		args = append(args, contractor)
	}
	query += ` ORDER BY start_time ASC`

	var sessions []model.WorkSession
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PayrollRepository) ListActiveSessions(ctx context.Context) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE status = 'active'
		ORDER BY start_time ASC
	`).Scan(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PayrollRepository) GetActiveSessionByName(ctx context.Context, contractor string) (*model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+sessionColumns+`
		FROM work_sessions
		WHERE status = 'active' AND contractor_name = ?
		ORDER BY start_time DESC
		LIMIT 1
	`, contractor).Scan(&sessions).Error
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (r *PayrollRepository) CreateSession(ctx context.Context, s *model.WorkSession) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO work_sessions (
			id, contractor_name, job_site_location, start_time,
			start_latitude, start_longitude, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.ContractorName, s.JobSiteLocation, s.StartTime,
		s.StartLatitude, s.StartLongitude, s.Status, s.CreatedAt).Error
}

// CloseSession writes the clock-out fields and any priced pay columns.
func (r *PayrollRepository) CloseSession(ctx context.Context, s *model.WorkSession) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE work_sessions
		SET end_time = ?,
		    total_hours = ?,
		    end_latitude = ?,
		    end_longitude = ?,
		    status = ?,
		    hourly_rate = ?,
		    gross_pay = ?,
		    cis_deduction = ?,
		    net_pay = ?
		WHERE id = ?
	`, s.EndTime, s.TotalHours, s.EndLatitude, s.EndLongitude, s.Status,
		s.HourlyRate, s.GrossPay, s.CisDeduction, s.NetPay, s.ID).Error
}

func (r *PayrollRepository) ListPayProfiles(ctx context.Context) ([]model.ContractorPayProfile, error) {
	var profiles []model.ContractorPayProfile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, hourly_rate, cis_registered
		FROM contractor_pay_profiles
		ORDER BY name ASC
	`).Scan(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *PayrollRepository) GetPayProfileByName(ctx context.Context, name string) (*model.ContractorPayProfile, error) {
	var profiles []model.ContractorPayProfile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, hourly_rate, cis_registered
		FROM contractor_pay_profiles
		WHERE name = ?
		LIMIT 1
	`, name).Scan(&profiles).Error
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}
