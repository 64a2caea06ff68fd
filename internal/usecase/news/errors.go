// Package news implements the editorial use cases for news articles:
// creation with collision-free slugs, listing, partial updates, display
// flags and deletion.
package news

import "errors"

var (
	// ErrNewsNotFound indicates no article matches the section and slug.
	ErrNewsNotFound = errors.New("news not found")

	// ErrNoFlags is returned when a flag update names no flag.
	ErrNoFlags = errors.New("at least one of isLatest, isTrending, isHidden is required")

	// ErrSlugExhausted means no free suffixed slug was found.
	ErrSlugExhausted = errors.New("could not allocate a unique slug")
)
