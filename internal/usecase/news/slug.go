package news

import (
	"context"
	"fmt"

	"newsdesk/internal/domain/entity"
)

const maxSlugAttempts = 10

// SlugChecker reports whether a slug is already taken.
type SlugChecker func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base when it is free and otherwise base with a random
// suffix, retried until an unused one is found.
func UniqueSlug(ctx context.Context, exists SlugChecker, base string) (string, error) {
	taken, err := exists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if !taken {
		return base, nil
	}
	for range maxSlugAttempts {
		candidate := entity.SuffixedSlug(base)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}
