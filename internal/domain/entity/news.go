package entity

import (
	"strings"
	"time"
)

// ArticleStatus is the editorial state of a news article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// ParseStatus normalizes s and reports whether it names a known status.
func ParseStatus(s string) (ArticleStatus, bool) {
	st := ArticleStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusPublished, StatusArchived:
		return st, true
	}
	return "", false
}

// NewsArticle is a persisted article. Drafts come from the draft pipeline or
// manual admin entry; PublishedAt is nil until the article is published.
type NewsArticle struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Category    string        `json:"category"`
	SubCategory string        `json:"subCategory"`
	Summary     string        `json:"summary"`
	Content     string        `json:"content"`
	Image       string        `json:"image"`
	Tags        []string      `json:"tags"`
	Status      ArticleStatus `json:"status"`
	SourceURL   string        `json:"sourceURL,omitempty"`
	PublishedAt *time.Time    `json:"publishedAt"`
	IsLatest    bool          `json:"isLatest"`
	IsTrending  bool          `json:"isTrending"`
	IsHidden    bool          `json:"isHidden"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Validate checks required fields and normalizes category and status.
// An empty status defaults to draft.
func (a *NewsArticle) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	a.Category = strings.ToLower(strings.TrimSpace(a.Category))
	if a.Category == "" {
		return &ValidationError{Field: "category", Message: "is required"}
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	st, ok := ParseStatus(string(a.Status))
	if !ok {
		return &ValidationError{Field: "status", Message: "must be one of draft, published, archived"}
	}
	a.Status = st
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return nil
}

// SetStatus changes the status and stamps PublishedAt on the first
// transition to published.
func (a *NewsArticle) SetStatus(st ArticleStatus, now time.Time) {
	a.Status = st
	if st == StatusPublished && a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
}

// Flags holds the optional display flags of an article. Nil fields are left
// unchanged.
type Flags struct {
	IsLatest   *bool `json:"isLatest"`
	IsTrending *bool `json:"isTrending"`
	IsHidden   *bool `json:"isHidden"`
}

// Empty reports whether no flag is set.
func (f Flags) Empty() bool {
	return f.IsLatest == nil && f.IsTrending == nil && f.IsHidden == nil
}
