package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the headlines table and its indexes. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS headlines (
    id           SERIAL PRIMARY KEY,
    headline     TEXT,
    full_text    TEXT,
    image_name   TEXT NOT NULL,
    image_url    TEXT,
    article_date DATE,
    created_at   TIMESTAMPTZ DEFAULT now()
)`,
	// store order: date descending, undated last
	`CREATE INDEX IF NOT EXISTS idx_headlines_article_date ON headlines(article_date DESC NULLS LAST)`,
	`CREATE INDEX IF NOT EXISTS idx_headlines_image_name ON headlines(image_name)`,
}

// MigrateUp applies the schema.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops the headlines table and everything in it.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		`DROP INDEX IF EXISTS idx_headlines_image_name`,
		`DROP INDEX IF EXISTS idx_headlines_article_date`,
		`DROP TABLE IF EXISTS headlines`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
