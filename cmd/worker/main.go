package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/infra/mailer"
	"newsdesk/internal/infra/pipeline"
	workerPkg "newsdesk/internal/infra/worker"
	"newsdesk/internal/observability/logging"
	newsUC "newsdesk/internal/usecase/news"
	outboxUC "newsdesk/internal/usecase/outbox"
	envconfig "newsdesk/pkg/config"
)

// waitForMigrations polls until the API has created the schema.
func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM news LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			os.Exit(0)
		case <-time.After(3 * time.Second):
		}
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger("newsdesk-worker")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.String("outbox_schedule", workerConfig.OutboxSchedule),
		slog.Int("health_port", workerConfig.HealthPort))

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	waitForMigrations(ctx, logger, database)
	go db.ReportPoolStats(ctx, database, 15*time.Second)

	jobs := setupJobs(logger, database, workerConfig, workerMetrics)
	runScheduler(ctx, logger, jobs, healthServer)
}

// setupJobs builds the draft pipeline and the outbox reconciler.
func setupJobs(logger *slog.Logger, database *sql.DB, cfg workerPkg.WorkerConfig, m *workerPkg.WorkerMetrics) *workerPkg.Jobs {
	newsSvc := &newsUC.Service{Repo: pgRepo.NewNewsRepo(database)}
	draftSvc, err := pipeline.NewDraftService(newsSvc, logger)
	if err != nil {
		logger.Error("failed to configure draft pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	sender, err := mailer.New(mailer.LoadConfigFromEnv())
	if err != nil {
		logger.Error("failed to configure mailer", slog.Any("error", err))
		os.Exit(1)
	}

	return &workerPkg.Jobs{
		Drafts:  draftSvc,
		Outbox:  outboxUC.NewService(pgRepo.NewOutboxRepo(database), sender),
		Config:  cfg,
		Metrics: m,
		Logger:  logger,
	}
}

// runScheduler blocks until ctx is cancelled, then waits for running jobs.
func runScheduler(ctx context.Context, logger *slog.Logger, jobs *workerPkg.Jobs, health *workerPkg.HealthServer) {
	c, err := workerPkg.NewScheduler(ctx, jobs)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	health.SetReady(true)
	logger.Info("worker started", slog.Int("jobs", len(c.Entries())))

	if envconfig.GetEnvBool("RUN_ON_START", false) {
		go func() { _, _ = jobs.RunDrafts(ctx) }()
	}

	<-ctx.Done()
	logger.Info("shutting down worker...")
	health.SetReady(false)

	stopped := c.Stop()
	select {
	case <-stopped.Done():
		logger.Info("worker stopped")
	case <-time.After(30 * time.Second):
		logger.Warn("jobs still running at shutdown deadline")
	}
}
