// Package scraper reads source feeds and article pages for the draft
// pipeline.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/infra/fetcher"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
)

// DefaultLinkLimit is how many links are taken from each feed.
const DefaultLinkLimit = 2

// RSSLinkFetcher implements draft.LinkFetcher using gofeed.
type RSSLinkFetcher struct {
	client         *http.Client
	cfg            fetcher.HTTPConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewRSSLinkFetcher creates a fetcher returning at most DefaultLinkLimit links.
func NewRSSLinkFetcher(cfg fetcher.HTTPConfig) *RSSLinkFetcher {
	return &RSSLinkFetcher{
		client:         fetcher.NewClient(cfg),
		cfg:            cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedConfig()),
	}
}

// Latest returns the first links of the feed in feed order. Failures are
// logged and reported in the result; the item list is then empty.
func (f *RSSLinkFetcher) Latest(ctx context.Context, feedURL string) draft.LinkResult {
	var items []entity.FeedLinkItem

	err := retry.WithBackoff(ctx, retry.FromAttempts(f.cfg.RetryAttempts), func() error {
		got, err := circuitbreaker.Do(f.circuitBreaker, func() ([]entity.FeedLinkItem, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		items = got
		return nil
	})
	if err != nil {
		slog.Warn("failed to fetch feed links",
			slog.String("feed_url", feedURL),
			slog.Any("error", err))
		return draft.LinkResult{Items: []entity.FeedLinkItem{}, Err: err}
	}

	return draft.LinkResult{Items: items}
}

func (f *RSSLinkFetcher) doFetch(ctx context.Context, feedURL string) ([]entity.FeedLinkItem, error) {
	if err := fetcher.ValidateURL(feedURL, f.cfg.DenyPrivateIPs); err != nil {
		return nil, retry.Permanent(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.UserAgent = f.cfg.UserAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, reqCtx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	items := make([]entity.FeedLinkItem, 0, DefaultLinkLimit)
	for _, it := range feed.Items {
		if len(items) == DefaultLinkLimit {
			break
		}
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		items = append(items, entity.FeedLinkItem{
			Title:       strings.TrimSpace(it.Title),
			Link:        link,
			PublishedAt: it.PublishedParsed,
		})
	}
	return items, nil
}
