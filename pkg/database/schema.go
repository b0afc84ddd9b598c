package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order on every start. Each statement must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
    id               BIGINT PRIMARY KEY,
    title            TEXT NOT NULL,
    subject          TEXT NOT NULL,
    grade_level      SMALLINT NOT NULL CHECK (grade_level BETWEEN 1 AND 12),
    difficulty       TEXT NOT NULL,
    pass_marks       SMALLINT NOT NULL CHECK (pass_marks BETWEEN 0 AND 100),
    assignment_count INTEGER NOT NULL CHECK (assignment_count >= 0),
    description      TEXT NOT NULL DEFAULT '',
    objectives       TEXT NOT NULL DEFAULT '',
    syllabus         TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
    principal   TEXT PRIMARY KEY,
    role        TEXT NOT NULL CHECK (role IN ('admin', 'user', 'guest')),
    assigned_by TEXT,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
    principal  TEXT PRIMARY KEY,
    name       TEXT NOT NULL CHECK (name <> ''),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
    id           BIGSERIAL PRIMARY KEY,
    student      TEXT NOT NULL,
    course_id    BIGINT NOT NULL REFERENCES courses (id),
    grade_level  SMALLINT NOT NULL CHECK (grade_level BETWEEN 1 AND 12),
    student_name TEXT NOT NULL DEFAULT '',
    enrolled_at  TIMESTAMPTZ NOT NULL,
    CONSTRAINT enrollments_student_course_key UNIQUE (student, course_id)
)`,
	`CREATE INDEX IF NOT EXISTS enrollments_course_idx ON enrollments (course_id, id)`,
	`CREATE TABLE IF NOT EXISTS payments (
    id           BIGSERIAL PRIMARY KEY,
    student      TEXT NOT NULL,
    payment_type TEXT NOT NULL CHECK (payment_type IN ('monthly', 'annual')),
    amount       BIGINT NOT NULL CHECK (amount >= 0),
    status       TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
    payment_date TIMESTAMPTZ NOT NULL,
    settled_at   TIMESTAMPTZ
)`,
	`CREATE INDEX IF NOT EXISTS payments_student_idx ON payments (student, id)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
    id          UUID PRIMARY KEY,
    principal   TEXT,
    action      TEXT NOT NULL,
    resource    TEXT NOT NULL,
    resource_id TEXT,
    new_values  JSONB,
    ip_address  TEXT NOT NULL DEFAULT '',
    user_agent  TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
)`,
}

// EnsureSchema creates missing tables and indexes inside one transaction.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
