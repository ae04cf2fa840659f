package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amicuslegal/amicus/internal/models"
	"github.com/redis/go-redis/v9"
)

const pendingSignupKeyPrefix = "signup:pending:"

// redisCommands is the slice of the redis client this repository uses.
// *redis.Client satisfies it; tests substitute a fake.
type redisCommands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PendingSignupRepository keeps pending registrations in Redis, one entry
// per email. Key TTL gives the passive expiry: once the window elapses the
// entry is simply absent, no sweeper involved.
type PendingSignupRepository struct {
	client redisCommands
	ttl    time.Duration
}

func NewPendingSignupRepository(client *redis.Client, ttl time.Duration) *PendingSignupRepository {
	return &PendingSignupRepository{client: client, ttl: ttl}
}

func pendingSignupKey(email string) string {
	return pendingSignupKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Upsert writes the pending signup for its email, overwriting any previous
// entry and restarting the expiry window. Last write wins.
func (r *PendingSignupRepository) Upsert(ctx context.Context, signup *models.PendingSignup) error {
	payload, err := json.Marshal(signup)
	if err != nil {
		return fmt.Errorf("failed to encode pending signup: %w", err)
	}

	if err := r.client.Set(ctx, pendingSignupKey(signup.Email), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending signup: %w", models.ErrPersistence)
	}

	return nil
}

// GetByEmail returns the pending signup, or ErrNotFound once the entry has
// expired or was never written.
func (r *PendingSignupRepository) GetByEmail(ctx context.Context, email string) (*models.PendingSignup, error) {
	payload, err := r.client.Get(ctx, pendingSignupKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read pending signup: %w", models.ErrPersistence)
	}

	var signup models.PendingSignup
	if err := json.Unmarshal(payload, &signup); err != nil {
		return nil, fmt.Errorf("failed to decode pending signup: %w", err)
	}

	return &signup, nil
}

// DeleteByEmail removes the entry. Deleting an absent key is not an error.
func (r *PendingSignupRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, pendingSignupKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending signup: %w", models.ErrPersistence)
	}
	return nil
}
