package entity

import "time"

// Checkpoint is the resumable cursor of a maintenance job.
type Checkpoint struct {
	Job         string
	LastID      int64
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// Done reports whether the job ran to completion.
func (c Checkpoint) Done() bool { return c.CompletedAt != nil }
