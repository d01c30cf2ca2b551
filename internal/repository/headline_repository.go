// Package repository declares the persistence ports of headline-desk.
package repository

import (
	"context"
	"time"

	"headline-desk/internal/domain/entity"
)

// StoredArticle is one migrated headline row.
type StoredArticle struct {
	ID        int64
	Headline  string
	FullText  string
	ImageName string
	// ImageURL is the object storage URL; empty when the image was missing at migration time.
	ImageURL    string
	ArticleDate *time.Time
	CreatedAt   time.Time
}

// HeadlineRepository persists migrated headlines.
type HeadlineRepository interface {
	// Insert stores a and sets its ID and CreatedAt.
	Insert(ctx context.Context, a *StoredArticle) error
	// ListRows returns every stored row in insertion order.
	ListRows(ctx context.Context) ([]entity.RawRow, error)
	// Count returns the number of stored rows.
	Count(ctx context.Context) (int64, error)
}
