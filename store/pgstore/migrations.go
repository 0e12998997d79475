package pgstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order on every start. Each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL UNIQUE,
		phone          TEXT NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		account_number TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id             TEXT PRIMARY KEY,
		customer_id    TEXT REFERENCES customers(id) ON DELETE SET NULL,
		customer_name  TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		phone          TEXT NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		line_items     JSONB NOT NULL DEFAULT '[]'::jsonb,
		margin         DOUBLE PRECISION NOT NULL DEFAULT 0,
		total          DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_cost     DOUBLE PRECISION NOT NULL DEFAULT 0,
		allow_override BOOLEAN NOT NULL DEFAULT FALSE,
		status         TEXT NOT NULL DEFAULT 'Open',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS work_orders (
		id             TEXT PRIMARY KEY,
		customer_name  TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		phone          TEXT NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		reference      TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'New',
		completed_at   TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_created_at ON work_orders (created_at DESC)`,
}

// Apply creates the tables and indexes if they do not exist.
func Apply(ctx context.Context, db sqlx.ExecerContext) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("pgstore: apply schema step %d: %w", i+1, err)
		}
	}
	return nil
}
