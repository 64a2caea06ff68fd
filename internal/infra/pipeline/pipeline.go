// Package pipeline assembles the draft orchestrator from environment
// configuration. The API and the worker share it so that a manual run and
// a scheduled run behave the same.
package pipeline

import (
	"fmt"
	"log/slog"

	"newsdesk/internal/config"
	"newsdesk/internal/infra/fetcher"
	"newsdesk/internal/infra/generator"
	"newsdesk/internal/infra/scraper"
	settings "newsdesk/internal/pkg/config"
	"newsdesk/internal/usecase/draft"
)

// NewDraftService reads SOURCES_FILE, the FETCH_* settings, the generator
// settings and the DRAFT_* options. A generator without credentials is not
// fatal: every generation then yields the sentinel draft and a warning is
// logged.
func NewDraftService(store draft.Store, logger *slog.Logger) (*draft.Service, error) {
	sources, err := config.LoadSourcesFromEnv()
	if err != nil {
		return nil, err
	}

	httpCfg, err := fetcher.LoadHTTPConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}

	genCfg, err := generator.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("generator config: %w", err)
	}
	gen, err := generator.New(genCfg)
	if err != nil {
		logger.Warn("draft generator disabled, runs will only produce sentinel drafts",
			slog.String("provider", genCfg.Provider),
			slog.Any("error", err))
		gen = generator.Unavailable{Reason: err.Error()}
	}

	svc := draft.NewService(sources,
		scraper.NewRSSLinkFetcher(httpCfg),
		scraper.NewPageScraper(httpCfg),
		gen,
		store,
	)
	applyOptions(&svc.Options, logger)

	logger.Info("draft pipeline configured",
		slog.Int("sources", len(sources)),
		slog.String("provider", genCfg.Provider),
		slog.Duration("fetch_timeout", httpCfg.Timeout),
		slog.Int("fetch_retry_attempts", httpCfg.RetryAttempts),
		slog.Bool("persist_sentinel", svc.Options.PersistSentinel),
		slog.Bool("skip_existing", svc.Options.SkipExisting),
		slog.Duration("run_timeout", svc.Options.RunTimeout))
	return svc, nil
}

// applyOptions overrides opts from DRAFT_PERSIST_SENTINEL, DRAFT_SKIP_EXISTING
// and DRAFT_RUN_TIMEOUT. Bad values keep the defaults.
func applyOptions(opts *draft.Options, logger *slog.Logger) {
	note := func(key, warning string, fallback bool) {
		if fallback {
			logger.Warn("draft option fallback", slog.String("key", key), slog.String("warning", warning))
		}
	}

	sentinel := settings.LoadBool("DRAFT_PERSIST_SENTINEL", opts.PersistSentinel)
	opts.PersistSentinel = sentinel.Value
	note("DRAFT_PERSIST_SENTINEL", sentinel.Warning, sentinel.FallbackApplied)

	skip := settings.LoadBool("DRAFT_SKIP_EXISTING", opts.SkipExisting)
	opts.SkipExisting = skip.Value
	note("DRAFT_SKIP_EXISTING", skip.Warning, skip.FallbackApplied)

	timeout := settings.LoadDuration("DRAFT_RUN_TIMEOUT", opts.RunTimeout, settings.ValidatePositiveDuration)
	opts.RunTimeout = timeout.Value
	note("DRAFT_RUN_TIMEOUT", timeout.Warning, timeout.FallbackApplied)
}
