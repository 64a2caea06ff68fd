package draft

import (
	"context"

	"newsdesk/internal/domain/entity"
)

// LinkResult is the outcome of reading a source feed. Err is set when the
// feed could not be read, in which case Items is empty.
type LinkResult struct {
	Items []entity.FeedLinkItem
	Err   error
}

// OK reports whether the feed was read.
func (r LinkResult) OK() bool { return r.Err == nil }

// LinkFetcher returns the latest links of a feed. It never fails outward;
// failures are reported through LinkResult.Err.
type LinkFetcher interface {
	Latest(ctx context.Context, feedURL string) LinkResult
}

// Scraper extracts facts from an article page. Failures are *ScrapeError.
type Scraper interface {
	Scrape(ctx context.Context, articleURL string) (entity.ScrapedFacts, error)
}

// DraftResult is the outcome of a generation. On failure Draft holds the
// sentinel draft and Err the cause.
type DraftResult struct {
	Draft entity.GeneratedDraft
	Err   error
}

// OK reports whether the draft is a real generated article.
func (r DraftResult) OK() bool { return r.Err == nil }

// Generator writes an article from scraped facts. It never fails outward.
type Generator interface {
	Generate(ctx context.Context, facts string) DraftResult
}

// Failed builds the failure variant of DraftResult.
func Failed(err error) DraftResult {
	return DraftResult{Draft: entity.SentinelDraft(), Err: err}
}
