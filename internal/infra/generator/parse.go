package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"newsdesk/internal/domain/entity"

	"github.com/yuin/goldmark"
)

// RequiredTags is the number of tags a draft must carry.
const RequiredTags = 5

var htmlTag = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?>`)

// ParseDraft decodes a model response into a GeneratedDraft. The response
// may be wrapped in a ```json fence. Markdown content is rendered to HTML.
func ParseDraft(raw string) (entity.GeneratedDraft, error) {
	body := stripFence(raw)

	var d entity.GeneratedDraft
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return entity.GeneratedDraft{}, fmt.Errorf("decode draft json: %w", err)
	}

	d.Title = strings.TrimSpace(d.Title)
	d.Summary = strings.TrimSpace(d.Summary)
	d.SubCategory = strings.TrimSpace(d.SubCategory)
	d.Content = strings.TrimSpace(d.Content)

	switch {
	case d.Title == "":
		return entity.GeneratedDraft{}, fmt.Errorf("draft title is empty")
	case d.Content == "":
		return entity.GeneratedDraft{}, fmt.Errorf("draft content is empty")
	case d.Summary == "":
		return entity.GeneratedDraft{}, fmt.Errorf("draft summary is empty")
	case d.SubCategory == "":
		return entity.GeneratedDraft{}, fmt.Errorf("draft subCategory is empty")
	}

	tags := make([]string, 0, RequiredTags)
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
		if len(tags) == RequiredTags {
			break
		}
	}
	if len(tags) < RequiredTags {
		return entity.GeneratedDraft{}, fmt.Errorf("draft has %d tags, want %d", len(tags), RequiredTags)
	}
	d.Tags = tags

	if !htmlTag.MatchString(d.Content) {
		html, err := markdownToHTML(d.Content)
		if err != nil {
			return entity.GeneratedDraft{}, err
		}
		d.Content = html
	}
	return d, nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
