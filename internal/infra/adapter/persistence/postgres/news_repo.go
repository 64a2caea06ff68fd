// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/repository"
)

const newsColumns = `id, title, slug, category, sub_category, summary, content, image, tags,
       status, source_url, published_at, is_latest, is_trending, is_hidden, created_at, updated_at`

// psql builds queries with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type NewsRepo struct {
	db *sql.DB
}

func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{db: db}
}

var (
	_ repository.NewsRepository            = (*NewsRepo)(nil)
	_ repository.NewsMaintenanceRepository = (*NewsRepo)(nil)
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(row rowScanner) (*entity.NewsArticle, error) {
	var a entity.NewsArticle
	var status string
	if err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Category, &a.SubCategory, &a.Summary,
		&a.Content, &a.Image, pq.Array(&a.Tags), &status, &a.SourceURL,
		&a.PublishedAt, &a.IsLatest, &a.IsTrending, &a.IsHidden,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = entity.ArticleStatus(status)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

func (repo *NewsRepo) Create(ctx context.Context, a *entity.NewsArticle) error {
	defer observe("news.create", time.Now())
	const query = `
INSERT INTO news
       (title, slug, category, sub_category, summary, content, image, tags,
        status, source_url, published_at, is_latest, is_trending, is_hidden)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		a.Title, a.Slug, a.Category, a.SubCategory, a.Summary, a.Content,
		a.Image, pq.Array(a.Tags), string(a.Status), a.SourceURL, a.PublishedAt,
		a.IsLatest, a.IsTrending, a.IsHidden,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *NewsRepo) GetBySlug(ctx context.Context, category, slug string) (*entity.NewsArticle, error) {
	defer observe("news.get_by_slug", time.Now())
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE category = $1 AND slug = $2
ORDER BY id
LIMIT 1`
	a, err := scanNews(repo.db.QueryRowContext(ctx, query, category, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return a, nil
}

func (repo *NewsRepo) List(ctx context.Context, f repository.NewsFilter) ([]*entity.NewsArticle, error) {
	defer observe("news.list", time.Now())
	qb := psql.Select(newsColumns).From("news").OrderBy("created_at DESC", "id DESC")
	if f.Status != "" {
		qb = qb.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Category != "" {
		qb = qb.Where(sq.Eq{"category": f.Category})
	}
	if f.ExcludeHidden {
		qb = qb.Where(sq.Eq{"is_hidden": false})
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		qb = qb.Offset(uint64(f.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("List: build: %w", err)
	}
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	capacity := f.Limit
	if capacity <= 0 {
		capacity = 50
	}
	articles := make([]*entity.NewsArticle, 0, capacity)
	for rows.Next() {
		a, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (repo *NewsRepo) Update(ctx context.Context, a *entity.NewsArticle) error {
	defer observe("news.update", time.Now())
	query, args, err := psql.Update("news").
		SetMap(map[string]any{
			"title":        a.Title,
			"slug":         a.Slug,
			"category":     a.Category,
			"sub_category": a.SubCategory,
			"summary":      a.Summary,
			"content":      a.Content,
			"image":        a.Image,
			"tags":         pq.Array(a.Tags),
			"status":       string(a.Status),
			"source_url":   a.SourceURL,
			"published_at": a.PublishedAt,
			"is_latest":    a.IsLatest,
			"is_trending":  a.IsTrending,
			"is_hidden":    a.IsHidden,
		}).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("Update: build: %w", err)
	}
	err = repo.db.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (repo *NewsRepo) Delete(ctx context.Context, id int64) error {
	defer observe("news.delete", time.Now())
	const query = `DELETE FROM news WHERE id = $1`
	return execOne(ctx, repo.db, "Delete", query, id)
}

func (repo *NewsRepo) SetFlags(ctx context.Context, id int64, flags entity.Flags) error {
	defer observe("news.set_flags", time.Now())
	if flags.Empty() {
		return nil
	}
	ub := psql.Update("news").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if flags.IsLatest != nil {
		ub = ub.Set("is_latest", *flags.IsLatest)
	}
	if flags.IsTrending != nil {
		ub = ub.Set("is_trending", *flags.IsTrending)
	}
	if flags.IsHidden != nil {
		ub = ub.Set("is_hidden", *flags.IsHidden)
	}
	query, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("SetFlags: build: %w", err)
	}
	return execOne(ctx, repo.db, "SetFlags", query, args...)
}

func (repo *NewsRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	defer observe("news.slug_exists", time.Now())
	const query = `SELECT EXISTS (SELECT 1 FROM news WHERE slug = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("SlugExists: %w", err)
	}
	return exists, nil
}

func (repo *NewsRepo) ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	defer observe("news.exists_by_source_url", time.Now())
	const query = `SELECT EXISTS (SELECT 1 FROM news WHERE source_url = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, sourceURL).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsBySourceURL: %w", err)
	}
	return exists, nil
}

/* ───── maintenance ───── */

func (repo *NewsRepo) ListAfter(ctx context.Context, afterID int64, limit int) ([]repository.MaintenanceRow, error) {
	defer observe("news.list_after", time.Now())
	const query = `
SELECT id, slug, category, status, published_at, created_at
FROM news
WHERE id > $1
ORDER BY id
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListAfter: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.MaintenanceRow, 0, limit)
	for rows.Next() {
		var r repository.MaintenanceRow
		var created sql.NullTime
		if err := rows.Scan(&r.ID, &r.Slug, &r.Category, &r.Status, &r.PublishedAt, &created); err != nil {
			return nil, fmt.Errorf("ListAfter: Scan: %w", err)
		}
		if created.Valid {
			t := created.Time
			r.CreatedAt = &t
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (repo *NewsRepo) SlugUsedBefore(ctx context.Context, slug string, id int64) (bool, error) {
	defer observe("news.slug_used_before", time.Now())
	const query = `SELECT EXISTS (SELECT 1 FROM news WHERE slug = $1 AND id < $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("SlugUsedBefore: %w", err)
	}
	return exists, nil
}

func (repo *NewsRepo) UpdateSlug(ctx context.Context, id int64, slug string) error {
	defer observe("news.update_slug", time.Now())
	const query = `UPDATE news SET slug = $1, updated_at = NOW() WHERE id = $2`
	return execOne(ctx, repo.db, "UpdateSlug", query, slug, id)
}

func (repo *NewsRepo) SetPublishedAt(ctx context.Context, id int64, at time.Time) error {
	defer observe("news.set_published_at", time.Now())
	const query = `UPDATE news SET published_at = $1, updated_at = NOW() WHERE id = $2 AND published_at IS NULL`
	// zero rows affected means the row was already stamped
	if _, err := repo.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("SetPublishedAt: %w", err)
	}
	return nil
}

func (repo *NewsRepo) UpdateNormalized(ctx context.Context, id int64, category, status string) error {
	defer observe("news.update_normalized", time.Now())
	const query = `UPDATE news SET category = $1, status = $2, updated_at = NOW() WHERE id = $3`
	return execOne(ctx, repo.db, "UpdateNormalized", query, category, status, id)
}

// observe records the latency of one repository call under op.
func observe(op string, start time.Time) {
	metrics.RecordDBQuery(op, time.Since(start))
}

// execOne runs an exec and returns entity.ErrNotFound when no row was affected.
func execOne(ctx context.Context, db *sql.DB, op, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
