package entity

import "time"

// FeedLinkItem is one entry read from an RSS feed.
type FeedLinkItem struct {
	Title       string
	Link        string
	PublishedAt *time.Time
}

// ScrapedFacts is the text extracted from an article page and used as
// generation input. Body is at least MinFactsBodyLength characters and
// Title is never empty.
type ScrapedFacts struct {
	Title     string
	Body      string
	SourceURL string
	// ImageURL is the page's lead image, if one was found.
	ImageURL string
}

// MinFactsBodyLength is the minimum body length of usable scraped facts.
const MinFactsBodyLength = 200

// GeneratedDraft is the structured article produced by the draft generator.
type GeneratedDraft struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
	SubCategory string   `json:"subCategory"`
}

// Placeholder values of the sentinel draft.
const (
	SentinelTitle       = "Error Generating Title"
	SentinelContent     = "Error Generating Content"
	SentinelSummary     = "Error Generating Summary"
	SentinelSubCategory = "General"
)

// SentinelDraft returns the fixed placeholder draft used when generation fails.
func SentinelDraft() GeneratedDraft {
	return GeneratedDraft{
		Title:       SentinelTitle,
		Content:     SentinelContent,
		Summary:     SentinelSummary,
		Tags:        []string{},
		SubCategory: SentinelSubCategory,
	}
}
