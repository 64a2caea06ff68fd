package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// CreateInput is an admin-entered article. Slug is derived from Title when empty.
type CreateInput struct {
	Title       string
	Slug        string
	Category    string
	SubCategory string
	Summary     string
	Content     string
	Image       string
	Tags        []string
	Status      string
	IsLatest    bool
	IsTrending  bool
	IsHidden    bool
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	Title       *string
	Slug        *string
	Category    *string
	SubCategory *string
	Summary     *string
	Content     *string
	Image       *string
	Tags        *[]string
	Status      *string
	IsLatest    *bool
	IsTrending  *bool
	IsHidden    *bool
}

// Service provides the news use cases on top of the repository.
type Service struct {
	Repo repository.NewsRepository
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create validates the input, allocates a free slug and stores the article.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.NewsArticle, error) {
	a := &entity.NewsArticle{
		Title:       strings.TrimSpace(in.Title),
		Slug:        in.Slug,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Summary:     in.Summary,
		Content:     in.Content,
		Image:       in.Image,
		Tags:        in.Tags,
		Status:      entity.ArticleStatus(in.Status),
		IsLatest:    in.IsLatest,
		IsTrending:  in.IsTrending,
		IsHidden:    in.IsHidden,
	}
	if err := s.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Save stores a prepared article: it validates, picks a unique slug and
// stamps PublishedAt for published articles.
func (s *Service) Save(ctx context.Context, a *entity.NewsArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}
	base := a.Slug
	if strings.TrimSpace(base) == "" {
		base = a.Title
	}
	slug, err := UniqueSlug(ctx, s.Repo.SlugExists, entity.Slugify(base))
	if err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	a.Slug = slug
	a.SetStatus(a.Status, s.now())

	if err := s.Repo.Create(ctx, a); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	slog.Default().Debug("news created",
		slog.Int64("id", a.ID),
		slog.String("slug", a.Slug),
		slog.String("category", a.Category),
		slog.String("status", string(a.Status)))
	return nil
}

// SourceDrafted reports whether an article was already created from sourceURL.
func (s *Service) SourceDrafted(ctx context.Context, sourceURL string) (bool, error) {
	ok, err := s.Repo.ExistsBySourceURL(ctx, sourceURL)
	if err != nil {
		return false, fmt.Errorf("check source url: %w", err)
	}
	return ok, nil
}

// List returns all articles, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, status string, page pagination.Params) ([]*entity.NewsArticle, error) {
	filter := repository.NewsFilter{Limit: page.Limit, Offset: page.Offset}
	if status != "" {
		st, ok := entity.ParseStatus(status)
		if !ok {
			return nil, &entity.ValidationError{Field: "status", Message: "must be one of draft, published, archived"}
		}
		filter.Status = st
	}
	return s.list(ctx, "list news", filter)
}

// ListBySection returns the visible published articles of a section.
func (s *Service) ListBySection(ctx context.Context, section string, page pagination.Params) ([]*entity.NewsArticle, error) {
	return s.list(ctx, "list news by section", repository.NewsFilter{
		Status:        entity.StatusPublished,
		Category:      normalizeSection(section),
		ExcludeHidden: true,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
}

// ListDrafts returns draft articles, newest first.
func (s *Service) ListDrafts(ctx context.Context, page pagination.Params) ([]*entity.NewsArticle, error) {
	return s.list(ctx, "list drafts", repository.NewsFilter{
		Status: entity.StatusDraft,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func (s *Service) list(ctx context.Context, op string, f repository.NewsFilter) ([]*entity.NewsArticle, error) {
	articles, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if articles == nil {
		articles = []*entity.NewsArticle{}
	}
	return articles, nil
}

// Get returns the article stored under section and slug.
func (s *Service) Get(ctx context.Context, section, slug string) (*entity.NewsArticle, error) {
	a, err := s.Repo.GetBySlug(ctx, normalizeSection(section), slug)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	if a == nil {
		return nil, ErrNewsNotFound
	}
	return a, nil
}

// Update applies a partial update. A changed slug is made unique; a status
// change to published stamps PublishedAt once.
func (s *Service) Update(ctx context.Context, section, slug string, in UpdateInput) (*entity.NewsArticle, error) {
	a, err := s.Get(ctx, section, slug)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, &entity.ValidationError{Field: "title", Message: "cannot be empty"}
		}
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Category != nil {
		a.Category = *in.Category
	}
	if in.SubCategory != nil {
		a.SubCategory = *in.SubCategory
	}
	if in.Summary != nil {
		a.Summary = *in.Summary
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.Image != nil {
		a.Image = *in.Image
	}
	if in.Tags != nil {
		a.Tags = *in.Tags
	}
	if in.IsLatest != nil {
		a.IsLatest = *in.IsLatest
	}
	if in.IsTrending != nil {
		a.IsTrending = *in.IsTrending
	}
	if in.IsHidden != nil {
		a.IsHidden = *in.IsHidden
	}
	if in.Status != nil {
		st, ok := entity.ParseStatus(*in.Status)
		if !ok {
			return nil, &entity.ValidationError{Field: "status", Message: "must be one of draft, published, archived"}
		}
		a.SetStatus(st, s.now())
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if in.Slug != nil {
		next := entity.Slugify(*in.Slug)
		if next != a.Slug {
			unique, err := UniqueSlug(ctx, s.Repo.SlugExists, next)
			if err != nil {
				return nil, fmt.Errorf("update news: %w", err)
			}
			a.Slug = unique
		}
	}

	if err := s.Repo.Update(ctx, a); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	return a, nil
}

// Delete removes the article stored under section and slug.
func (s *Service) Delete(ctx context.Context, section, slug string) error {
	a, err := s.Get(ctx, section, slug)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}

// SetFlags updates the display flags that are set in flags.
func (s *Service) SetFlags(ctx context.Context, section, slug string, flags entity.Flags) (*entity.NewsArticle, error) {
	if flags.Empty() {
		return nil, ErrNoFlags
	}
	a, err := s.Get(ctx, section, slug)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetFlags(ctx, a.ID, flags); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("set flags: %w", err)
	}
	if flags.IsLatest != nil {
		a.IsLatest = *flags.IsLatest
	}
	if flags.IsTrending != nil {
		a.IsTrending = *flags.IsTrending
	}
	if flags.IsHidden != nil {
		a.IsHidden = *flags.IsHidden
	}
	return a, nil
}

func normalizeSection(section string) string {
	return strings.ToLower(strings.TrimSpace(section))
}
