package breaking

import (
	"context"
	"errors"
	"fmt"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// CreateInput describes a new ticker item. IsActive defaults to true.
type CreateInput struct {
	Title    string
	Link     *string
	Priority int
	IsActive *bool
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	Title    *string
	Link     *string
	Priority *int
	IsActive *bool
}

type Service struct {
	Repo repository.BreakingNewsRepository
}

// List returns active items unless all is true.
func (s *Service) List(ctx context.Context, all bool) ([]*entity.BreakingNewsItem, error) {
	items, err := s.Repo.List(ctx, !all)
	if err != nil {
		return nil, fmt.Errorf("list breaking news: %w", err)
	}
	if items == nil {
		items = []*entity.BreakingNewsItem{}
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.BreakingNewsItem, error) {
	item := &entity.BreakingNewsItem{
		Title:    in.Title,
		Link:     in.Link,
		Priority: in.Priority,
		IsActive: true,
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create breaking news: %w", err)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.BreakingNewsItem, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	item, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get breaking news: %w", err)
	}
	if item == nil {
		return nil, ErrBreakingNotFound
	}

	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Link != nil {
		item.Link = in.Link
	}
	if in.Priority != nil {
		item.Priority = *in.Priority
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, item); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrBreakingNotFound
		}
		return nil, fmt.Errorf("update breaking news: %w", err)
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrBreakingNotFound
		}
		return fmt.Errorf("delete breaking news: %w", err)
	}
	return nil
}
