package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/infra/fetcher"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order; the first one matching any paragraph
// wins. When none match, every <p> on the page is used.
var contentSelectors = []string{
	"article p",
	".article-body p",
	".story-body p",
	".story p",
	".content p",
	".post-content p",
	".entry-content p",
	"#content p",
	"main p",
}

// boilerplateMarkers disqualify a paragraph when contained in its text.
var boilerplateMarkers = []string{"Read Also", "Subscribe"}

const (
	minParagraphLength = 60
	maxParagraphs      = 15
)

// PageScraper implements draft.Scraper with goquery.
type PageScraper struct {
	client         *http.Client
	cfg            fetcher.HTTPConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPageScraper creates a scraper using cfg for every request.
func NewPageScraper(cfg fetcher.HTTPConfig) *PageScraper {
	return &PageScraper{
		client:         fetcher.NewClient(cfg),
		cfg:            cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ScraperConfig()),
	}
}

// Scrape fetches articleURL and extracts its facts. Every failure is a
// *draft.ScrapeError; content-quality failures wrap draft.ErrInsufficientContent.
func (s *PageScraper) Scrape(ctx context.Context, articleURL string) (entity.ScrapedFacts, error) {
	var page *fetcher.Page
	err := retry.WithBackoff(ctx, retry.FromAttempts(s.cfg.RetryAttempts), func() error {
		p, err := circuitbreaker.Do(s.circuitBreaker, func() (*fetcher.Page, error) {
			return fetcher.Get(ctx, s.client, s.cfg, articleURL)
		})
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return entity.ScrapedFacts{}, &draft.ScrapeError{URL: articleURL, Err: err}
	}

	facts, err := Extract(page.Body, page.FinalURL)
	if err != nil {
		return entity.ScrapedFacts{}, &draft.ScrapeError{URL: articleURL, Err: err}
	}
	facts.SourceURL = articleURL
	return facts, nil
}

// Extract pulls the title, body paragraphs and lead image out of an HTML
// document. It returns draft.ErrInsufficientContent when the title is empty or
// the body is shorter than entity.MinFactsBodyLength characters.
func Extract(html []byte, pageURL string) (entity.ScrapedFacts, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return entity.ScrapedFacts{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	body := strings.Join(qualifyingParagraphs(selectParagraphs(doc)), " ")

	if title == "" || utf8.RuneCountInString(body) < entity.MinFactsBodyLength {
		return entity.ScrapedFacts{}, fmt.Errorf("%w: title=%t body=%d chars",
			draft.ErrInsufficientContent, title != "", utf8.RuneCountInString(body))
	}

	return entity.ScrapedFacts{
		Title:     collapseSpace(title),
		Body:      body,
		SourceURL: pageURL,
		ImageURL:  leadImage(doc, pageURL),
	}, nil
}

func selectParagraphs(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return doc.Find("p")
}

func qualifyingParagraphs(sel *goquery.Selection) []string {
	out := make([]string, 0, maxParagraphs)
	sel.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := collapseSpace(p.Text())
		if utf8.RuneCountInString(text) <= minParagraphLength || isBoilerplate(text) {
			return true
		}
		out = append(out, text)
		return len(out) < maxParagraphs
	})
	return out
}

func isBoilerplate(text string) bool {
	for _, marker := range boilerplateMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// collapseSpace trims text and folds internal whitespace runs to one space.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// leadImage returns the og:image (or twitter:image) of the page resolved
// against pageURL.
func leadImage(doc *goquery.Document, pageURL string) string {
	var raw string
	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			raw = strings.TrimSpace(v)
			break
		}
	}
	if raw == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
