package repository

import (
	"context"
	"time"

	"newsdesk/internal/domain/entity"
)

// NewsFilter narrows a news listing. Zero values mean "no constraint".
type NewsFilter struct {
	Status        entity.ArticleStatus
	Category      string
	ExcludeHidden bool
	Limit         int
	Offset        int
}

type NewsRepository interface {
	// Create inserts the article and fills ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, article *entity.NewsArticle) error
	// GetBySlug returns (nil, nil) when no article matches.
	GetBySlug(ctx context.Context, category, slug string) (*entity.NewsArticle, error)
	// List returns articles newest first.
	List(ctx context.Context, filter NewsFilter) ([]*entity.NewsArticle, error)
	Update(ctx context.Context, article *entity.NewsArticle) error
	Delete(ctx context.Context, id int64) error
	// SetFlags updates only the non-nil flags.
	SetFlags(ctx context.Context, id int64, flags entity.Flags) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error)
}

// MaintenanceRow is the subset of a news row the repair jobs work on.
type MaintenanceRow struct {
	ID          int64
	Slug        string
	Category    string
	Status      string
	PublishedAt *time.Time
	CreatedAt   *time.Time
}

// NewsMaintenanceRepository supports cursor-driven repair jobs that touch
// one row at a time.
type NewsMaintenanceRepository interface {
	// ListAfter returns up to limit rows with id > afterID in id order.
	ListAfter(ctx context.Context, afterID int64, limit int) ([]MaintenanceRow, error)
	// SlugUsedBefore reports whether a row with a smaller id already holds slug.
	SlugUsedBefore(ctx context.Context, slug string, id int64) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateSlug(ctx context.Context, id int64, slug string) error
	SetPublishedAt(ctx context.Context, id int64, at time.Time) error
	UpdateNormalized(ctx context.Context, id int64, category, status string) error
}
