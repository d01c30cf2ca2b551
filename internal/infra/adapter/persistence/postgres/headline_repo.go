// Package postgres implements the repository ports on PostgreSQL through database/sql
// and the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/observability/metrics"
	"headline-desk/internal/repository"
)

type HeadlineRepo struct {
	db *sql.DB
}

func NewHeadlineRepo(db *sql.DB) *HeadlineRepo {
	return &HeadlineRepo{db: db}
}

var _ repository.HeadlineRepository = (*HeadlineRepo)(nil)

func (repo *HeadlineRepo) Insert(ctx context.Context, a *repository.StoredArticle) error {
	const query = `
INSERT INTO headlines (headline, full_text, image_name, image_url, article_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert_headline", time.Since(start)) }()

	var date sql.NullTime
	if a.ArticleDate != nil {
		date = sql.NullTime{Time: *a.ArticleDate, Valid: true}
	}

	err := repo.db.QueryRowContext(ctx, query,
		nullString(a.Headline), nullString(a.FullText), a.ImageName, nullString(a.ImageURL), date,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

func (repo *HeadlineRepo) ListRows(ctx context.Context) ([]entity.RawRow, error) {
	const query = `
SELECT headline, full_text, image_name
FROM headlines
ORDER BY id ASC`

	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_headlines", time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListRows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]entity.RawRow, 0, 256)
	for rows.Next() {
		var headline, fullText sql.NullString
		var row entity.RawRow
		if err := rows.Scan(&headline, &fullText, &row.ImageName); err != nil {
			return nil, fmt.Errorf("ListRows: Scan: %w", err)
		}
		row.Headline = headline.String
		row.FullText = fullText.String
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRows: %w", err)
	}
	return result, nil
}

func (repo *HeadlineRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM headlines`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
