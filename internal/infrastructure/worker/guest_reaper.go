// Package worker hosts background loops that run alongside the HTTP server.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tableup/restaurant-auth/internal/api/metrics"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

const defaultReapInterval = 15 * time.Minute

// GuestReaper periodically deletes guest accounts whose sessions have
// expired. Guest rows would otherwise accumulate forever, one per guest
// login.
type GuestReaper struct {
	registry ports.GuestRegistry
	users    ports.UserRepository
	interval time.Duration
	log      zerolog.Logger
}

// NewGuestReaper creates a reaper sweeping every interval.
// If interval <= 0, defaultReapInterval is used.
func NewGuestReaper(registry ports.GuestRegistry, users ports.UserRepository, interval time.Duration, log zerolog.Logger) *GuestReaper {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	return &GuestReaper{
		registry: registry,
		users:    users,
		interval: interval,
		log:      log,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (r *GuestReaper) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *GuestReaper) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := r.Sweep(ctx); err != nil {
				r.log.Error().Err(err).Msg("guest sweep failed")
			} else if n > 0 {
				r.log.Info().Int("deleted", n).Msg("expired guest accounts reaped")
			}
		}
	}
}

// Sweep deletes every guest account due at or before now and returns how many
// rows were removed. A failed delete leaves the id tracked for the next pass.
func (r *GuestReaper) Sweep(ctx context.Context) (int, error) {
	due, err := r.registry.DueBefore(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range due {
		if _, err := r.users.Delete(ctx, id); err != nil {
			r.log.Warn().Err(err).Int64("user_id", id).Msg("failed to delete expired guest")
			continue
		}
		if err := r.registry.Remove(ctx, id); err != nil {
			r.log.Warn().Err(err).Int64("user_id", id).Msg("failed to untrack reaped guest")
		}
		deleted++
	}

	if deleted > 0 {
		metrics.GuestsReapedTotal.Add(float64(deleted))
	}
	return deleted, nil
}
