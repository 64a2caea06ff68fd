package entity

import "strings"

// SourceDescriptor is one entry of the source registry: an RSS feed and the
// news section its drafts are filed under. Identity is FeedURL.
type SourceDescriptor struct {
	Name     string `yaml:"name" json:"name"`
	FeedURL  string `yaml:"feed_url" json:"feedURL"`
	Category string `yaml:"category" json:"category"`
}

// Validate checks the descriptor fields and lowercases the category.
func (s *SourceDescriptor) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if err := ValidateURL("feed_url", s.FeedURL); err != nil {
		return err
	}
	s.Category = strings.ToLower(strings.TrimSpace(s.Category))
	if s.Category == "" {
		return &ValidationError{Field: "category", Message: "is required"}
	}
	return nil
}
