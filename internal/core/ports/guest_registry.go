package ports

import (
	"context"
	"time"
)

// GuestRegistry tracks ephemeral guest accounts for retention. Guest rows are
// permanent in the user store; the registry records when each one stops being
// useful (its token expiry) so a background reaper can delete it.
type GuestRegistry interface {
	Track(ctx context.Context, userID int64, expiresAt time.Time) error
	// DueBefore returns guest ids whose expiry is at or before cutoff.
	DueBefore(ctx context.Context, cutoff time.Time) ([]int64, error)
	Remove(ctx context.Context, userID int64) error
}
