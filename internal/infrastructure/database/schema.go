package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		google_id TEXT UNIQUE,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		picture TEXT NOT NULL DEFAULT '',
		last_login TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		alias TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'Other',
		unit TEXT NOT NULL DEFAULT 'unit',
		default_quantity DOUBLE PRECISION NOT NULL DEFAULT 1,
		consumption_duration DOUBLE PRECISION NOT NULL DEFAULT 7,
		average_monthly_consumption DOUBLE PRECISION NOT NULL DEFAULT 1,
		consumers_count INT NOT NULL DEFAULT 0,
		preferred_store TEXT NOT NULL DEFAULT '',
		product_link TEXT NOT NULL DEFAULT '',
		last_known_price DOUBLE PRECISION,
		best_price DOUBLE PRECISION,
		best_price_store TEXT NOT NULL DEFAULT '',
		best_price_link TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_owner_name ON products(owner_id, name)`,
	`CREATE TABLE IF NOT EXISTS lists (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		items JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lists_owner_status ON lists(owner_id, status, created_at DESC)`,
}

// EnsureSchema creates the tables and indexes when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
