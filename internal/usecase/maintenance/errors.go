package maintenance

import "errors"

var (
	// ErrUnknownJob is returned for a job name that is not registered.
	ErrUnknownJob = errors.New("unknown maintenance job")

	// ErrSlugExhausted means no free suffixed slug was found.
	ErrSlugExhausted = errors.New("could not find an unused slug")
)
