package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates every table the service uses.  Statements are idempotent
// so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		admin_level TINYINT NOT NULL DEFAULT 0,
		accepted_term BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS venues (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		capacity INT NOT NULL DEFAULT 0,
		opening_hours VARCHAR(16) NOT NULL,
		is_instant_book BOOLEAN NOT NULL DEFAULT FALSE,
		visible BOOLEAN NOT NULL DEFAULT TRUE,
		is_child_venue BOOLEAN NOT NULL DEFAULT FALSE,
		parent_venue CHAR(36) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_venues_name (name),
		KEY idx_venues_parent (parent_venue)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS venue_booking_requests (
		id CHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		venue_id CHAR(36) NOT NULL,
		date BIGINT NOT NULL,
		time_slots VARCHAR(255) NOT NULL,
		cca VARCHAR(255) NOT NULL,
		purpose TEXT NOT NULL,
		is_approved BOOLEAN NOT NULL DEFAULT FALSE,
		is_rejected BOOLEAN NOT NULL DEFAULT FALSE,
		is_cancelled BOOLEAN NOT NULL DEFAULT FALSE,
		reason TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_vbr_venue_date (venue_id, date),
		KEY idx_vbr_email (email),
		CONSTRAINT fk_vbr_venue FOREIGN KEY (venue_id) REFERENCES venues(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS venue_bookings (
		id CHAR(36) PRIMARY KEY,
		booking_request_id CHAR(36) NOT NULL,
		venue_id CHAR(36) NOT NULL,
		date BIGINT NOT NULL,
		timing_slot TINYINT UNSIGNED NOT NULL,
		email VARCHAR(255) NOT NULL,
		cca VARCHAR(255) NOT NULL,
		purpose TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_vb_venue_date_slot (venue_id, date, timing_slot),
		KEY idx_vb_request (booking_request_id),
		CONSTRAINT fk_vb_request FOREIGN KEY (booking_request_id) REFERENCES venue_booking_requests(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS ccas (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(64) NOT NULL DEFAULT '',
		UNIQUE KEY uq_ccas_name (name)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS cca_leaders (
		cca_id CHAR(36) NOT NULL,
		email VARCHAR(255) NOT NULL,
		PRIMARY KEY (cca_id, email),
		KEY idx_cca_leaders_email (email),
		CONSTRAINT fk_cca_leaders_cca FOREIGN KEY (cca_id) REFERENCES ccas(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS cca_sessions (
		id CHAR(36) PRIMARY KEY,
		cca_id CHAR(36) NOT NULL,
		date BIGINT NOT NULL,
		time_start CHAR(4) NOT NULL,
		time_end CHAR(4) NOT NULL,
		optional BOOLEAN NOT NULL DEFAULT FALSE,
		remarks TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_cca_sessions_cca_date (cca_id, date),
		CONSTRAINT fk_cca_sessions_cca FOREIGN KEY (cca_id) REFERENCES ccas(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS cca_attendance (
		session_id CHAR(36) NOT NULL,
		email VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL,
		remarks TEXT NOT NULL,
		PRIMARY KEY (session_id, email),
		CONSTRAINT fk_cca_attendance_session FOREIGN KEY (session_id) REFERENCES cca_sessions(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// Migrate applies the schema in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
