package repository

import (
	"context"

	"newsdesk/internal/domain/entity"
)

type CheckpointRepository interface {
	// Get returns a zero checkpoint for a job that never ran.
	Get(ctx context.Context, job string) (entity.Checkpoint, error)
	Save(ctx context.Context, job string, lastID int64) error
	Complete(ctx context.Context, job string) error
	Reset(ctx context.Context, job string) error
}
