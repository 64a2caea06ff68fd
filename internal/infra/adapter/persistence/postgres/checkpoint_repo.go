package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

type CheckpointRepo struct{ db *sql.DB }

func NewCheckpointRepo(db *sql.DB) repository.CheckpointRepository {
	return &CheckpointRepo{db: db}
}

func (repo *CheckpointRepo) Get(ctx context.Context, job string) (entity.Checkpoint, error) {
	defer observe("checkpoint.get", time.Now())
	const query = `
SELECT job, last_id, completed_at, updated_at
FROM maintenance_checkpoints
WHERE job = $1`
	cp := entity.Checkpoint{Job: job}
	err := repo.db.QueryRowContext(ctx, query, job).
		Scan(&cp.Job, &cp.LastID, &cp.CompletedAt, &cp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Checkpoint{Job: job}, nil
	}
	if err != nil {
		return entity.Checkpoint{}, fmt.Errorf("Get: %w", err)
	}
	return cp, nil
}

func (repo *CheckpointRepo) Save(ctx context.Context, job string, lastID int64) error {
	defer observe("checkpoint.save", time.Now())
	const query = `
INSERT INTO maintenance_checkpoints (job, last_id, completed_at, updated_at)
VALUES ($1, $2, NULL, NOW())
ON CONFLICT (job) DO UPDATE
SET last_id = EXCLUDED.last_id, completed_at = NULL, updated_at = NOW()`
	if _, err := repo.db.ExecContext(ctx, query, job, lastID); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

func (repo *CheckpointRepo) Complete(ctx context.Context, job string) error {
	defer observe("checkpoint.complete", time.Now())
	const query = `
INSERT INTO maintenance_checkpoints (job, last_id, completed_at, updated_at)
VALUES ($1, 0, NOW(), NOW())
ON CONFLICT (job) DO UPDATE
SET completed_at = NOW(), updated_at = NOW()`
	if _, err := repo.db.ExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("Complete: %w", err)
	}
	return nil
}

func (repo *CheckpointRepo) Reset(ctx context.Context, job string) error {
	defer observe("checkpoint.reset", time.Now())
	const query = `DELETE FROM maintenance_checkpoints WHERE job = $1`
	if _, err := repo.db.ExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("Reset: %w", err)
	}
	return nil
}
