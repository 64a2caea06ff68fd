// Package draft turns the source registry into draft articles: it reads
// links from each source feed, scrapes the linked pages, asks a language
// model for a structured article and stores the result as a draft.
package draft

import (
	"errors"
	"fmt"
)

// Sentinel errors for the draft pipeline.
var (
	// ErrInsufficientContent means the page had no title or too little body text.
	ErrInsufficientContent = errors.New("insufficient content")

	// ErrInvalidURL means a URL was malformed or used a forbidden scheme.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP means a URL resolved to a private or loopback address.
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrTooManyRedirects means the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge means the response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout means an outbound request exceeded its timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrGeneration wraps every failure of the draft generator.
	ErrGeneration = errors.New("draft generation failed")
)

// ScrapeError is returned by a Scraper when a page cannot be turned into facts.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// IsInsufficientContent reports whether err is a content-quality failure
// rather than a fetch failure.
func IsInsufficientContent(err error) bool {
	return errors.Is(err, ErrInsufficientContent)
}
