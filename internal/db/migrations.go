package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'session_status') THEN
			CREATE TYPE session_status AS ENUM ('active', 'completed', 'cancelled', 'temporarily_away');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS contractor_pay_profiles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		hourly_rate NUMERIC(8,2) NOT NULL,
		cis_registered BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS work_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contractor_name TEXT NOT NULL,
		job_site_location TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		total_hours TEXT,
		start_latitude TEXT,
		start_longitude TEXT,
		end_latitude TEXT,
		end_longitude TEXT,
		status session_status NOT NULL DEFAULT 'active',
		hourly_rate NUMERIC(8,2),
		gross_pay NUMERIC(10,2),
		cis_deduction NUMERIC(10,2),
		net_pay NUMERIC(10,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'work_sessions' AND column_name = 'hourly_rate') THEN
			ALTER TABLE work_sessions ADD COLUMN hourly_rate NUMERIC(8,2);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'work_sessions' AND column_name = 'gross_pay') THEN
			ALTER TABLE work_sessions ADD COLUMN gross_pay NUMERIC(10,2);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'work_sessions' AND column_name = 'cis_deduction') THEN
			ALTER TABLE work_sessions ADD COLUMN cis_deduction NUMERIC(10,2);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'work_sessions' AND column_name = 'net_pay') THEN
			ALTER TABLE work_sessions ADD COLUMN net_pay NUMERIC(10,2);
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_status_start ON work_sessions (status, start_time);`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_contractor ON work_sessions (contractor_name);`,
}

func Migrate(database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
