package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

const schema = `
-- Contests
CREATE TABLE IF NOT EXISTS contest (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    program_id BIGINT NOT NULL DEFAULT 0
);

-- Brackets
CREATE TABLE IF NOT EXISTS bracket (
    id BIGINT PRIMARY KEY,
    contest_id BIGINT NOT NULL REFERENCES contest(id) ON DELETE CASCADE,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bracket_contest_id ON bracket(contest_id);

-- Entries
CREATE TABLE IF NOT EXISTS entry (
    id BIGINT PRIMARY KEY,
    contest_id BIGINT NOT NULL REFERENCES contest(id) ON DELETE CASCADE,
    program_id BIGINT NOT NULL,
    bracket_id BIGINT REFERENCES bracket(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_entry_contest_id ON entry(contest_id);

-- Admin users
CREATE TABLE IF NOT EXISTS app_user (
    id BIGINT PRIMARY KEY,
    kaid TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 0 AND level <= 2)
);
`
