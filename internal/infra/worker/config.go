// Package worker holds the scheduler process plumbing: its configuration,
// health server and job metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/pkg/config"
)

// WorkerConfig controls the scheduled jobs.
type WorkerConfig struct {
	// CronSchedule triggers draft runs. Five-field or descriptor syntax.
	CronSchedule string
	Timezone     string
	// RunTimeout bounds a single draft run.
	RunTimeout time.Duration
	// OutboxSchedule triggers the mail outbox reconciler.
	OutboxSchedule string
	HealthPort     int
}

// DefaultConfig runs drafts every six hours in UTC and reconciles the
// outbox every 30 seconds.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "0 */6 * * *",
		Timezone:       "UTC",
		RunTimeout:     30 * time.Minute,
		OutboxSchedule: "@every 30s",
		HealthPort:     9091,
	}
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateCronSchedule(c.OutboxSchedule); err != nil {
		errs = append(errs, fmt.Errorf("outbox schedule: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads CRON_SCHEDULE, CRON_TIMEZONE, DRAFT_RUN_TIMEOUT,
// OUTBOX_SCHEDULE and HEALTH_PORT. Invalid values fall back to their
// defaults with a warning and a fallback metric; the result is always valid.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	note("cron_schedule", schedule.Warning, schedule.FallbackApplied)

	tz := config.LoadString("CRON_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("timezone", tz.Warning, tz.FallbackApplied)

	timeout := config.LoadDuration("DRAFT_RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = timeout.Value
	note("run_timeout", timeout.Warning, timeout.FallbackApplied)

	outbox := config.LoadString("OUTBOX_SCHEDULE", cfg.OutboxSchedule, config.ValidateCronSchedule)
	cfg.OutboxSchedule = outbox.Value
	note("outbox_schedule", outbox.Warning, outbox.FallbackApplied)

	port := config.LoadInt("HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	note("health_port", port.Warning, port.FallbackApplied)

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return cfg
}
