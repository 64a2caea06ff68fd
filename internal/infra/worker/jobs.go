package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newsdesk/internal/usecase/draft"
	"newsdesk/internal/usecase/outbox"
)

// Job labels used in logs and metrics.
const (
	JobDrafts = "drafts"
	JobOutbox = "outbox"
)

// DraftRunner runs the draft pipeline once.
type DraftRunner interface {
	Run(ctx context.Context) (draft.RunStats, error)
}

// OutboxReconciler delivers due outbox messages.
type OutboxReconciler interface {
	ReconcileOnce(ctx context.Context) (outbox.Stats, error)
}

// Jobs binds the scheduled work to its configuration. Outbox may be nil
// when mail is not configured.
type Jobs struct {
	Drafts  DraftRunner
	Outbox  OutboxReconciler
	Config  WorkerConfig
	Metrics *WorkerMetrics
	Logger  *slog.Logger
}

// RunDrafts executes one draft run, waiting at most Config.RunTimeout for
// it. A run still going at that point finishes in background.
func (j *Jobs) RunDrafts(ctx context.Context) (draft.RunStats, error) {
	ctx, cancel := context.WithTimeout(ctx, j.Config.RunTimeout)
	defer cancel()

	start := time.Now()
	stats, err := j.Drafts.Run(ctx)
	j.Metrics.RecordJob(JobDrafts, time.Since(start).Seconds(), err)
	j.Metrics.RecordDraftsSaved(stats.Saved)

	attrs := []any{
		slog.Int("sources", stats.Sources),
		slog.Int("links", stats.Links),
		slog.Int("generated", stats.Generated),
		slog.Int("saved", stats.Saved),
		slog.Int64("duration_ms", stats.DurationMs),
	}
	if err != nil {
		j.Logger.Error("draft run interrupted", append(attrs, slog.Any("error", err))...)
		return stats, err
	}
	j.Logger.Info("draft run completed", attrs...)
	return stats, nil
}

// ReconcileOutbox runs one reconcile pass.
func (j *Jobs) ReconcileOutbox(ctx context.Context) (outbox.Stats, error) {
	start := time.Now()
	stats, err := j.Outbox.ReconcileOnce(ctx)
	j.Metrics.RecordJob(JobOutbox, time.Since(start).Seconds(), err)
	j.Metrics.RecordOutboxDelivered(stats.Sent)
	if err != nil {
		j.Logger.Error("outbox reconcile failed", slog.Any("error", err))
		return stats, err
	}
	if stats.Claimed > 0 {
		j.Logger.Info("outbox reconciled",
			slog.Int("claimed", stats.Claimed),
			slog.Int("sent", stats.Sent),
			slog.Int("retried", stats.Retried),
			slog.Int("failed", stats.Failed))
	}
	return stats, nil
}

// NewScheduler registers the jobs on a cron in Config.Timezone. Overlapping
// triggers of the same job are skipped. Jobs run under ctx, so cancelling
// it aborts the work in flight.
func NewScheduler(ctx context.Context, j *Jobs) (*cron.Cron, error) {
	loc, err := time.LoadLocation(j.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", j.Config.Timezone, err)
	}
	logger := cronLogger{j.Logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(j.Config.CronSchedule, func() { _, _ = j.RunDrafts(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", JobDrafts, err)
	}
	if j.Outbox != nil {
		if _, err := c.AddFunc(j.Config.OutboxSchedule, func() { _, _ = j.ReconcileOutbox(ctx) }); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", JobOutbox, err)
		}
	}
	return c, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
