package entity

import (
	"strings"
	"time"
)

// BreakingNewsItem is a ticker item shown in the live-news strip.
type BreakingNewsItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Link      *string   `json:"link"`
	IsActive  bool      `json:"isActive"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks that the ticker item has a title.
func (b *BreakingNewsItem) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if b.Link != nil && *b.Link != "" {
		if err := ValidateURL("link", *b.Link); err != nil {
			return err
		}
	}
	return nil
}
