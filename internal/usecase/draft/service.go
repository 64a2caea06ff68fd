package draft

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/observability/tracing"
)

// Store persists drafts and answers whether a link was drafted before.
type Store interface {
	Save(ctx context.Context, a *entity.NewsArticle) error
	SourceDrafted(ctx context.Context, sourceURL string) (bool, error)
}

// Options control what a run persists.
type Options struct {
	// PersistSentinel stores placeholder drafts for failed generations.
	PersistSentinel bool
	// SkipExisting skips links that already have a stored draft.
	SkipExisting bool
	// RunTimeout bounds the shared run independently of any caller.
	RunTimeout time.Duration
}

// DefaultRunTimeout is the RunTimeout of DefaultOptions.
const DefaultRunTimeout = 30 * time.Minute

// DefaultOptions skips already drafted links and drops failed generations.
func DefaultOptions() Options {
	return Options{PersistSentinel: false, SkipExisting: true, RunTimeout: DefaultRunTimeout}
}

// RunStats counts what happened during one run.
type RunStats struct {
	Sources            int           `json:"sources"`
	SourceFailures     int           `json:"sourceFailures"`
	Links              int           `json:"links"`
	SkippedExisting    int           `json:"skippedExisting"`
	Scraped            int           `json:"scraped"`
	ScrapeFailures     int           `json:"scrapeFailures"`
	Generated          int           `json:"generated"`
	GenerationFailures int           `json:"generationFailures"`
	Saved              int           `json:"saved"`
	SaveFailures       int           `json:"saveFailures"`
	Duration           time.Duration `json:"-"`
	DurationMs         int64         `json:"durationMs"`
}

// Service runs the draft pipeline over the source registry.
type Service struct {
	Sources   []entity.SourceDescriptor
	Fetcher   LinkFetcher
	Scraper   Scraper
	Generator Generator
	Store     Store
	Options   Options

	group singleflight.Group
}

// NewService returns a Service with DefaultOptions.
func NewService(sources []entity.SourceDescriptor, fetcher LinkFetcher, scraper Scraper, gen Generator, store Store) *Service {
	return &Service{
		Sources:   sources,
		Fetcher:   fetcher,
		Scraper:   scraper,
		Generator: gen,
		Store:     store,
		Options:   DefaultOptions(),
	}
}

// Run processes every source once. A call made while a run is in flight
// joins that run and receives its stats.
//
// The run is detached from the caller's cancellation and bounded by
// Options.RunTimeout instead, so one caller going away never cuts the run
// short for the others. When ctx ends first, Run returns ctx.Err() with
// zero stats and the run carries on. Every failure other than the run's
// own deadline is counted in the stats.
func (s *Service) Run(ctx context.Context) (RunStats, error) {
	ch := s.group.DoChan("run", func() (any, error) {
		timeout := s.Options.RunTimeout
		if timeout <= 0 {
			timeout = DefaultRunTimeout
		}
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return s.run(runCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.Default().Info("joined in-flight draft run")
		}
		stats, _ := res.Val.(RunStats)
		return stats, res.Err
	case <-ctx.Done():
		slog.Default().Info("stopped waiting for draft run; it continues in background",
			slog.Any("error", ctx.Err()))
		return RunStats{}, ctx.Err()
	}
}

func (s *Service) run(ctx context.Context) (RunStats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := RunStats{Sources: len(s.Sources)}

	ctx, span := tracing.Start(ctx, "draft.run", attribute.Int("draft.sources", len(s.Sources)))
	defer span.End()

	var runErr error
	for _, src := range s.Sources {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := s.processSource(ctx, src, &stats); err != nil {
			runErr = err
			break
		}
	}

	stats.Duration = time.Since(start)
	stats.DurationMs = stats.Duration.Milliseconds()
	metrics.RecordDraftRun(stats.Duration)
	span.SetAttributes(
		attribute.Int("draft.links", stats.Links),
		attribute.Int("draft.saved", stats.Saved),
	)
	tracing.Fail(span, runErr)

	logger.Info("draft run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("source_failures", stats.SourceFailures),
		slog.Int("links", stats.Links),
		slog.Int("skipped_existing", stats.SkippedExisting),
		slog.Int("scraped", stats.Scraped),
		slog.Int("scrape_failures", stats.ScrapeFailures),
		slog.Int("generated", stats.Generated),
		slog.Int("generation_failures", stats.GenerationFailures),
		slog.Int("saved", stats.Saved),
		slog.Int("save_failures", stats.SaveFailures),
		slog.Duration("duration", stats.Duration),
		slog.Bool("interrupted", runErr != nil))
	return stats, runErr
}

// processSource handles the links of one source. It only returns an error
// when ctx ends between links.
func (s *Service) processSource(ctx context.Context, src entity.SourceDescriptor, stats *RunStats) error {
	logger := slog.Default().With(
		slog.String("source", src.Name),
		slog.String("category", src.Category))

	res := s.Fetcher.Latest(ctx, src.FeedURL)
	if !res.OK() {
		stats.SourceFailures++
		metrics.RecordFeedFailure(src.Name)
		logger.Warn("feed unavailable, skipping source", slog.Any("error", res.Err))
		return nil
	}
	metrics.RecordFeedLinks(src.Name, len(res.Items))

	for _, item := range res.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Links++
		s.processLink(ctx, logger, src, item, stats)
	}
	return nil
}

func (s *Service) processLink(ctx context.Context, logger *slog.Logger, src entity.SourceDescriptor, item entity.FeedLinkItem, stats *RunStats) {
	logger = logger.With(slog.String("link", item.Link))

	if s.Options.SkipExisting {
		done, err := s.Store.SourceDrafted(ctx, item.Link)
		if err != nil {
			// fall through and try the link; a duplicate draft is recoverable
			logger.Warn("draft lookup failed", slog.Any("error", err))
		} else if done {
			stats.SkippedExisting++
			logger.Debug("link already drafted")
			return
		}
	}

	facts, err := s.Scraper.Scrape(ctx, item.Link)
	if err != nil {
		stats.ScrapeFailures++
		outcome := "fetch_error"
		if IsInsufficientContent(err) {
			outcome = "insufficient"
		}
		metrics.RecordScrape(outcome)
		logger.Warn("scrape failed", slog.String("outcome", outcome), slog.Any("error", err))
		return
	}
	stats.Scraped++
	metrics.RecordScrape("ok")

	gen := s.Generator.Generate(ctx, FactsPrompt(facts))
	metrics.RecordDraftGenerated(gen.OK())
	if gen.OK() {
		stats.Generated++
	} else {
		stats.GenerationFailures++
		logger.Warn("draft generation failed", slog.Any("error", gen.Err))
		if !s.Options.PersistSentinel {
			return
		}
	}

	article := articleFromDraft(gen.Draft, src, item.Link, facts.ImageURL)
	if err := s.Store.Save(ctx, article); err != nil {
		stats.SaveFailures++
		level := slog.LevelError
		if entity.IsValidationError(err) {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "draft save failed", slog.Any("error", err))
		return
	}
	stats.Saved++
	metrics.RecordDraftSaved(src.Category)
	logger.Info("draft saved",
		slog.Int64("news_id", article.ID),
		slog.String("slug", article.Slug))
}

// FactsPrompt renders scraped facts as generator input.
func FactsPrompt(f entity.ScrapedFacts) string {
	return fmt.Sprintf("Title: %s\n\nSource: %s\n\n%s", f.Title, f.SourceURL, f.Body)
}

func articleFromDraft(d entity.GeneratedDraft, src entity.SourceDescriptor, link, image string) *entity.NewsArticle {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)
	return &entity.NewsArticle{
		Title:       d.Title,
		Category:    src.Category,
		SubCategory: d.SubCategory,
		Summary:     d.Summary,
		Content:     d.Content,
		Image:       image,
		Tags:        tags,
		Status:      entity.StatusDraft,
		SourceURL:   link,
	}
}
