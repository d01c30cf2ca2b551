package dataset

import (
	"context"
	"fmt"
	"time"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/repository"
	"headline-desk/internal/resilience/retry"
)

// PostgresLoader reads rows back from the migrated headlines table.
type PostgresLoader struct {
	Repo repository.HeadlineRepository
}

// SourceName labels the loader in metrics.
func (l *PostgresLoader) SourceName() string { return "postgres" }

// LoadRows implements headline.RowLoader.
func (l *PostgresLoader) LoadRows(ctx context.Context) ([]entity.RawRow, error) {
	var rows []entity.RawRow
	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		var err error
		rows, err = l.Repo.ListRows(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list headlines: %w", err)
	}
	return rows, nil
}
