package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const guestExpiryKey = "guests:expiry"

// GuestRegistry indexes guest account ids by token expiry in a Redis sorted
// set so the reaper can sweep rows whose sessions have ended. Losing the set
// is harmless: untracked guests simply persist until a manual cleanup.
type GuestRegistry struct {
	client *redis.Client
}

func NewGuestRegistry(client *redis.Client) *GuestRegistry {
	return &GuestRegistry{client: client}
}

// Track records a guest id with its session expiry as the score.
func (g *GuestRegistry) Track(ctx context.Context, userID int64, expiresAt time.Time) error {
	err := g.client.ZAdd(ctx, guestExpiryKey, redis.Z{
		Score:  float64(expiresAt.Unix()),
		Member: strconv.FormatInt(userID, 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("track guest: %w", err)
	}
	return nil
}

// DueBefore returns all guest ids whose expiry is at or before cutoff.
func (g *GuestRegistry) DueBefore(ctx context.Context, cutoff time.Time) ([]int64, error) {
	members, err := g.client.ZRangeByScore(ctx, guestExpiryKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("due guests: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Remove drops a guest id from the expiry index.
func (g *GuestRegistry) Remove(ctx context.Context, userID int64) error {
	if err := g.client.ZRem(ctx, guestExpiryKey, strconv.FormatInt(userID, 10)).Err(); err != nil {
		return fmt.Errorf("remove guest: %w", err)
	}
	return nil
}
