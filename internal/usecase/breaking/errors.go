// Package breaking manages the breaking-news ticker.
package breaking

import "errors"

var (
	// ErrBreakingNotFound indicates the ticker item does not exist.
	ErrBreakingNotFound = errors.New("breaking news not found")

	// ErrInvalidID indicates a non-positive id.
	ErrInvalidID = errors.New("invalid breaking news ID")
)
