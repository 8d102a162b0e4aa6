package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		phone VARCHAR(32),
		address TEXT,
		role VARCHAR(16) NOT NULL DEFAULT 'citizen' CHECK (role IN ('citizen', 'collector', 'admin')),
		fcm_token TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bins (
		id VARCHAR(64) PRIMARY KEY,
		location VARCHAR(255) NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		capacity INTEGER NOT NULL DEFAULT 100 CHECK (capacity > 0),
		fill_level INTEGER NOT NULL DEFAULT 0 CHECK (fill_level BETWEEN 0 AND 100),
		status VARCHAR(16) NOT NULL DEFAULT 'empty' CHECK (status IN ('empty', 'low', 'medium', 'high', 'full')),
		type VARCHAR(16) NOT NULL DEFAULT 'general' CHECK (type IN ('general', 'recyclable', 'organic', 'hazardous')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		bin_id VARCHAR(64) NOT NULL REFERENCES bins(id) ON DELETE CASCADE,
		issue_type VARCHAR(16) NOT NULL CHECK (issue_type IN ('overflow', 'damage', 'missing', 'odor', 'other')),
		description TEXT NOT NULL CHECK (description <> ''),
		priority VARCHAR(16) NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'critical')),
		status VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in_progress', 'resolved', 'rejected')),
		resolution_notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	);`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		bin_id VARCHAR(64) NOT NULL REFERENCES bins(id) ON DELETE CASCADE,
		collector_id UUID REFERENCES users(id) ON DELETE SET NULL,
		scheduled_date DATE NOT NULL,
		scheduled_time TIME NOT NULL DEFAULT '09:00:00',
		route TEXT,
		status VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in_progress', 'completed', 'cancelled')),
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		type VARCHAR(16) NOT NULL DEFAULT 'info' CHECK (type IN ('alert', 'info', 'warning', 'success')),
		related_entity_type VARCHAR(16),
		related_entity_id VARCHAR(64),
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'users' AND column_name = 'fcm_token') THEN
			ALTER TABLE users ADD COLUMN fcm_token TEXT;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'reports' AND column_name = 'updated_at') THEN
			ALTER TABLE reports ADD COLUMN updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'schedules' AND column_name = 'updated_at') THEN
			ALTER TABLE schedules ADD COLUMN updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW();
		END IF;
	END
	$$;`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS phone VARCHAR(32);`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS address TEXT;`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role);`,
	`CREATE INDEX IF NOT EXISTS idx_bins_status ON bins (status);`,
	`CREATE INDEX IF NOT EXISTS idx_bins_fill_level ON bins (fill_level DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_collector_id ON schedules (collector_id) WHERE collector_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules (scheduled_date);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications (user_id, is_read);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
