package repository

import (
	"context"

	"newsdesk/internal/domain/entity"
)

type BreakingNewsRepository interface {
	// List orders by priority desc, created_at desc.
	List(ctx context.Context, activeOnly bool) ([]*entity.BreakingNewsItem, error)
	// Get returns (nil, nil) when the item does not exist.
	Get(ctx context.Context, id int64) (*entity.BreakingNewsItem, error)
	Create(ctx context.Context, item *entity.BreakingNewsItem) error
	// Update and Delete return entity.ErrNotFound when no row matches.
	Update(ctx context.Context, item *entity.BreakingNewsItem) error
	Delete(ctx context.Context, id int64) error
}
