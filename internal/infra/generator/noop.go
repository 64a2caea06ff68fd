package generator

import (
	"context"
	"fmt"

	"newsdesk/internal/usecase/draft"
)

// Unavailable is used when no provider is configured. Every call returns
// the sentinel draft.
type Unavailable struct {
	Reason string
}

// Generate implements draft.Generator.
func (u Unavailable) Generate(_ context.Context, _ string) draft.DraftResult {
	return draft.Failed(fmt.Errorf("%w: %s", draft.ErrGeneration, u.Reason))
}
