package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

const breakingColumns = `id, title, link, is_active, priority, created_at, updated_at`

type BreakingNewsRepo struct{ db *sql.DB }

func NewBreakingNewsRepo(db *sql.DB) repository.BreakingNewsRepository {
	return &BreakingNewsRepo{db: db}
}

func scanBreaking(row rowScanner) (*entity.BreakingNewsItem, error) {
	var b entity.BreakingNewsItem
	var link sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &link, &b.IsActive, &b.Priority, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if link.Valid {
		b.Link = &link.String
	}
	return &b, nil
}

func (repo *BreakingNewsRepo) List(ctx context.Context, activeOnly bool) ([]*entity.BreakingNewsItem, error) {
	defer observe("breaking.list", time.Now())
	qb := psql.Select(breakingColumns).From("breaking_news").OrderBy("priority DESC", "created_at DESC")
	if activeOnly {
		qb = qb.Where(sq.Eq{"is_active": true})
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

	items := make([]*entity.BreakingNewsItem, 0, 16)
	for rows.Next() {
		b, err := scanBreaking(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (repo *BreakingNewsRepo) Get(ctx context.Context, id int64) (*entity.BreakingNewsItem, error) {
	defer observe("breaking.get", time.Now())
	const query = `SELECT ` + breakingColumns + ` FROM breaking_news WHERE id = $1`
	b, err := scanBreaking(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return b, nil
}

func (repo *BreakingNewsRepo) Create(ctx context.Context, b *entity.BreakingNewsItem) error {
	defer observe("breaking.create", time.Now())
	const query = `
INSERT INTO breaking_news (title, link, is_active, priority)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query, b.Title, nullString(b.Link), b.IsActive, b.Priority).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *BreakingNewsRepo) Update(ctx context.Context, b *entity.BreakingNewsItem) error {
	defer observe("breaking.update", time.Now())
	query, args, err := psql.Update("breaking_news").
		Set("title", b.Title).
		Set("link", nullString(b.Link)).
		Set("is_active", b.IsActive).
		Set("priority", b.Priority).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("Update: build: %w", err)
	}
	err = repo.db.QueryRowContext(ctx, query, args...).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (repo *BreakingNewsRepo) Delete(ctx context.Context, id int64) error {
	defer observe("breaking.delete", time.Now())
	return execOne(ctx, repo.db, "Delete", `DELETE FROM breaking_news WHERE id = $1`, id)
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
