// Package maintenance holds the operator repair jobs for the news table.
// Each job walks rows in id order one at a time, is safe to re-run, and
// records a cursor so that an interrupted run resumes where it stopped.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// Job names, also used as checkpoint keys and CLI subcommands.
const (
	JobNormalize         = "normalize"
	JobDedupeSlugs       = "dedupe-slugs"
	JobBackfillPublished = "backfill-published"
)

// Jobs lists every job in the order "all" runs them. Normalization goes
// first so the backfill sees lowercase statuses.
var Jobs = []string{JobNormalize, JobDedupeSlugs, JobBackfillPublished}

const (
	defaultBatchSize  = 200
	maxSuffixAttempts = 20
)

// Report summarizes one job run.
type Report struct {
	Job      string `json:"job"`
	Resumed  bool   `json:"resumed"`
	Scanned  int    `json:"scanned"`
	Changed  int    `json:"changed"`
	Failed   int    `json:"failed"`
	LastID   int64  `json:"lastId"`
	Complete bool   `json:"complete"`
}

// rowFunc repairs one row and reports whether it changed anything.
type rowFunc func(ctx context.Context, row repository.MaintenanceRow) (bool, error)

type Service struct {
	News        repository.NewsMaintenanceRepository
	Checkpoints repository.CheckpointRepository
	BatchSize   int
	Now         func() time.Time
	// Suffix generates slug suffixes; entity.RandomSuffix when nil.
	Suffix func() string
}

func NewService(news repository.NewsMaintenanceRepository, cps repository.CheckpointRepository) *Service {
	return &Service{News: news, Checkpoints: cps, BatchSize: defaultBatchSize, Now: time.Now}
}

func (s *Service) handler(job string) (rowFunc, bool) {
	switch job {
	case JobNormalize:
		return s.normalizeRow, true
	case JobDedupeSlugs:
		return s.dedupeRow, true
	case JobBackfillPublished:
		return s.backfillRow, true
	}
	return nil, false
}

// RunAll runs every job in Jobs order and stops at the first job error.
func (s *Service) RunAll(ctx context.Context, reset bool) ([]Report, error) {
	reports := make([]Report, 0, len(Jobs))
	for _, job := range Jobs {
		rep, err := s.Run(ctx, job, reset)
		reports = append(reports, rep)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// Run executes job. A completed job, or any job when reset is set, starts
// over from the first row; otherwise it resumes after its checkpoint.
// Row failures are counted and leave the checkpoint at the last row before
// the first failure, so the next run retries them.
func (s *Service) Run(ctx context.Context, job string, reset bool) (Report, error) {
	fn, ok := s.handler(job)
	if !ok {
		return Report{Job: job}, fmt.Errorf("%w: %q", ErrUnknownJob, job)
	}
	logger := slog.Default().With(slog.String("job", job))
	rep := Report{Job: job}

	cp, err := s.Checkpoints.Get(ctx, job)
	if err != nil {
		return rep, fmt.Errorf("load checkpoint: %w", err)
	}
	if reset || cp.Done() {
		if err := s.Checkpoints.Reset(ctx, job); err != nil {
			return rep, fmt.Errorf("reset checkpoint: %w", err)
		}
		cp = entity.Checkpoint{Job: job}
	}
	rep.Resumed = cp.LastID > 0
	rep.LastID = cp.LastID

	batch := s.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	scanFrom := cp.LastID
	blocked := false
	for {
		rows, err := s.News.ListAfter(ctx, scanFrom, batch)
		if err != nil {
			return rep, fmt.Errorf("list rows: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		advanced := false
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				s.saveCursor(ctx, logger, job, advanced, rep.LastID)
				return rep, err
			}
			rep.Scanned++
			changed, err := fn(ctx, row)
			switch {
			case err != nil:
				rep.Failed++
				blocked = true
				logger.Warn("row repair failed", slog.Int64("id", row.ID), slog.Any("error", err))
			case changed:
				rep.Changed++
			}
			if err == nil && !blocked {
				rep.LastID = row.ID
				advanced = true
			}
		}
		scanFrom = rows[len(rows)-1].ID
		if advanced {
			if err := s.Checkpoints.Save(ctx, job, rep.LastID); err != nil {
				return rep, fmt.Errorf("save checkpoint: %w", err)
			}
		}
		if len(rows) < batch {
			break
		}
	}

	if rep.Failed == 0 {
		if err := s.Checkpoints.Complete(ctx, job); err != nil {
			return rep, fmt.Errorf("complete checkpoint: %w", err)
		}
		rep.Complete = true
	}
	logger.Info("maintenance job finished",
		slog.Bool("resumed", rep.Resumed),
		slog.Int("scanned", rep.Scanned),
		slog.Int("changed", rep.Changed),
		slog.Int("failed", rep.Failed),
		slog.Int64("last_id", rep.LastID))
	return rep, nil
}

// saveCursor persists progress on the way out of an interrupted run. It
// uses a fresh context because ctx is already done.
func (s *Service) saveCursor(ctx context.Context, logger *slog.Logger, job string, advanced bool, lastID int64) {
	if !advanced {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Checkpoints.Save(saveCtx, job, lastID); err != nil {
		logger.Error("checkpoint save failed", slog.Any("error", err))
	}
}

func (s *Service) normalizeRow(ctx context.Context, row repository.MaintenanceRow) (bool, error) {
	category := strings.ToLower(strings.TrimSpace(row.Category))
	status := strings.ToLower(strings.TrimSpace(row.Status))
	if category == row.Category && status == row.Status {
		return false, nil
	}
	if err := s.News.UpdateNormalized(ctx, row.ID, category, status); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) dedupeRow(ctx context.Context, row repository.MaintenanceRow) (bool, error) {
	if row.Slug == "" {
		return false, nil
	}
	taken, err := s.News.SlugUsedBefore(ctx, row.Slug, row.ID)
	if err != nil || !taken {
		return false, err
	}

	suffix := s.Suffix
	if suffix == nil {
		suffix = func() string { return entity.RandomSuffix(entity.SlugSuffixSize) }
	}
	for i := 0; i < maxSuffixAttempts; i++ {
		candidate := row.Slug + "-" + suffix()
		exists, err := s.News.SlugExists(ctx, candidate)
		if err != nil {
			return false, err
		}
		if exists {
			continue
		}
		if err := s.News.UpdateSlug(ctx, row.ID, candidate); err != nil {
			return false, err
		}
		slog.Default().Info("duplicate slug renamed",
			slog.Int64("id", row.ID),
			slog.String("from", row.Slug),
			slog.String("to", candidate))
		return true, nil
	}
	return false, fmt.Errorf("%w for %q", ErrSlugExhausted, row.Slug)
}

func (s *Service) backfillRow(ctx context.Context, row repository.MaintenanceRow) (bool, error) {
	if !strings.EqualFold(strings.TrimSpace(row.Status), string(entity.StatusPublished)) || row.PublishedAt != nil {
		return false, nil
	}
	at := time.Now()
	if s.Now != nil {
		at = s.Now()
	}
	if row.CreatedAt != nil {
		at = *row.CreatedAt
	}
	if err := s.News.SetPublishedAt(ctx, row.ID, at); err != nil {
		return false, err
	}
	return true, nil
}
