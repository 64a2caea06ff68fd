package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"newsdesk/internal/common/pagination"
	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/infra/mailer"
	"newsdesk/internal/infra/otpstore"
	"newsdesk/internal/infra/pipeline"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/observability/tracing"
	envconfig "newsdesk/pkg/config"
	"newsdesk/pkg/ratelimit"
	"newsdesk/pkg/security/csp"

	breakingUC "newsdesk/internal/usecase/breaking"
	newsUC "newsdesk/internal/usecase/news"
	otpUC "newsdesk/internal/usecase/otp"
	outboxUC "newsdesk/internal/usecase/outbox"

	hhttp "newsdesk/internal/handler/http"
	"newsdesk/internal/handler/http/auth"
	hbreaking "newsdesk/internal/handler/http/breaking"
	hdrafts "newsdesk/internal/handler/http/drafts"
	"newsdesk/internal/handler/http/middleware"
	hnews "newsdesk/internal/handler/http/news"
	hotp "newsdesk/internal/handler/http/otp"
	"newsdesk/internal/handler/http/requestid"
)

// maxBodyBytes caps request bodies; article content is the largest payload.
const maxBodyBytes = 1 << 20

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := logging.NewLogger("newsdesk-api")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	go db.ReportPoolStats(ctx, database, 15*time.Second)

	rdb := initRedis(ctx, logger)
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis", slog.Any("error", err))
		}
	}()

	handler := setupServer(ctx, logger, database, rdb, getVersion())
	runServer(ctx, logger, handler)
}

// initDatabase opens the pool and applies the schema.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func initRedis(ctx context.Context, logger *slog.Logger) *redis.Client {
	cfg := otpstore.LoadConfigFromEnv()
	client, err := otpstore.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to redis", slog.String("addr", cfg.Address), slog.Any("error", err))
		os.Exit(1)
	}
	return client
}

func getVersion() string {
	return envconfig.GetEnvString("VERSION", "dev")
}

// setupServer wires the use cases, routes and middleware.
func setupServer(ctx context.Context, logger *slog.Logger, database *sql.DB, rdb *redis.Client, version string) http.Handler {
	newsSvc := &newsUC.Service{Repo: pgRepo.NewNewsRepo(database)}
	breakingSvc := &breakingUC.Service{Repo: pgRepo.NewBreakingNewsRepo(database)}

	sender, err := mailer.New(mailer.LoadConfigFromEnv())
	if err != nil {
		logger.Error("failed to configure mailer", slog.Any("error", err))
		os.Exit(1)
	}
	outboxSvc := outboxUC.NewService(pgRepo.NewOutboxRepo(database), sender)
	// mail queued while the API was down goes out now; the worker takes over after
	go func() {
		stats, err := outboxSvc.ReconcileOnce(ctx)
		if err != nil {
			logger.Warn("startup outbox sweep failed", slog.Any("error", err))
			return
		}
		logger.Info("startup outbox sweep done",
			slog.Int("sent", stats.Sent),
			slog.Int("retried", stats.Retried),
			slog.Int("failed", stats.Failed))
	}()

	issuer, err := auth.IssuerFromEnv()
	if err != nil {
		logger.Error("failed to configure admin tokens", slog.Any("error", err))
		os.Exit(1)
	}
	// a nil *Issuer must not become a non-nil interface
	var tokens otpUC.TokenIssuer
	if issuer != nil {
		tokens = issuer
	}

	otpCfg, err := otpUC.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid otp configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if tokens != nil {
		if err := otpCfg.ValidateForTokens(); err != nil {
			logger.Error("refusing to start: ADMIN_JWT_SECRET is set but ADMIN_EMAILS is empty", slog.Any("error", err))
			os.Exit(1)
		}
	}
	otpStore := otpstore.NewStore(rdb, otpstore.DefaultGrace)
	otpSvc := otpUC.NewService(otpStore, outboxSvc, tokens, otpCfg)

	draftSvc, err := pipeline.NewDraftService(newsSvc, logger)
	if err != nil {
		logger.Error("failed to configure draft pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	pageCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Redis: otpStore, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database, Redis: otpStore})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hnews.Register(mux, newsSvc, pageCfg)
	hbreaking.Register(mux, breakingSvc)
	hotp.Register(mux, otpSvc)
	hdrafts.Register(mux, hdrafts.Handler{
		Runner:  draftSvc,
		Lister:  newsSvc,
		PageCfg: pageCfg,
		Timeout: envconfig.GetEnvDuration("DRAFT_RUN_TIMEOUT", hdrafts.DefaultRunTimeout),
	})

	corsCfg := middleware.LoadCORSConfigFromEnv()
	proxies, err := middleware.LoadTrustedProxiesFromEnv()
	if err != nil {
		logger.Error("invalid RATE_LIMIT_TRUSTED_PROXIES", slog.Any("error", err))
		os.Exit(1)
	}
	otpPerMinute := envconfig.GetEnvInt("OTP_IP_RATE_PER_MINUTE", 20)
	logger.Info("http server configured",
		slog.Int("page_default_limit", pageCfg.DefaultLimit),
		slog.Int("page_max_limit", pageCfg.MaxLimit),
		slog.Any("cors_allowed_origins", corsCfg.AllowedOrigins),
		slog.Int("otp_ip_rate_per_minute", otpPerMinute),
		slog.Bool("admin_auth", issuer != nil))

	// Outermost first. Rejected admin requests still get logged and counted.
	return hhttp.Chain(mux,
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		middleware.SecurityHeaders(csp.APIPolicy()),
		middleware.CORS(corsCfg),
		hhttp.RateLimit(ratelimit.PerMinute(otpPerMinute), proxies.ClientIP, "/otp/"),
		hhttp.LimitRequestBody(maxBodyBytes),
		auth.Authz(issuer),
	)
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler) {
	addr := ":" + envconfig.GetEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// drafts runs are synchronous; leave room for DRAFT_RUN_TIMEOUT
		WriteTimeout: envconfig.GetEnvDuration("DRAFT_RUN_TIMEOUT", hdrafts.DefaultRunTimeout) + 30*time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
