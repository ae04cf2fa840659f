package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/amicuslegal/amicus/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements redisCommands over a plain map, honoring TTLs
// coarsely (an expired entry reads as redis.Nil).
type fakeRedis struct {
	data    map[string]string
	expires map[string]time.Time
	setErr  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data:    make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		cmd := redis.NewStatusCmd(ctx)
		cmd.SetErr(f.setErr)
		return cmd
	}
	f.data[key] = string(value.([]byte))
	f.expires[key] = time.Now().Add(expiration)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	val, ok := f.data[key]
	if !ok || time.Now().After(f.expires[key]) {
		cmd := redis.NewStringCmd(ctx)
		cmd.SetErr(redis.Nil)
		return cmd
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var deleted int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			delete(f.expires, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func newTestPendingSignupRepo(client redisCommands, ttl time.Duration) *PendingSignupRepository {
	return &PendingSignupRepository{client: client, ttl: ttl}
}

func TestPendingSignupRepository_UpsertAndGet(t *testing.T) {
	fake := newFakeRedis()
	repo := newTestPendingSignupRepo(fake, 10*time.Minute)

	signup := &models.PendingSignup{
		Email:     "user@example.com",
		Code:      "123456",
		Name:      "Ann",
		Password:  "secret1",
		Country:   "India",
		State:     "Delhi",
		CreatedAt: time.Now(),
	}

	require.NoError(t, repo.Upsert(context.Background(), signup))

	got, err := repo.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, "secret1", got.Password)
	assert.Equal(t, "India", got.Country)
}

func TestPendingSignupRepository_GetIsCaseInsensitive(t *testing.T) {
	fake := newFakeRedis()
	repo := newTestPendingSignupRepo(fake, 10*time.Minute)

	signup := &models.PendingSignup{Email: "user@example.com", Code: "654321", Password: "pw", CreatedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), signup))

	got, err := repo.GetByEmail(context.Background(), "USER@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "654321", got.Code)
}

func TestPendingSignupRepository_UpsertOverwrites(t *testing.T) {
	fake := newFakeRedis()
	repo := newTestPendingSignupRepo(fake, 10*time.Minute)

	first := &models.PendingSignup{Email: "user@example.com", Code: "111111", Password: "pw", CreatedAt: time.Now()}
	second := &models.PendingSignup{Email: "user@example.com", Code: "222222", Password: "pw", CreatedAt: time.Now()}

	require.NoError(t, repo.Upsert(context.Background(), first))
	require.NoError(t, repo.Upsert(context.Background(), second))

	got, err := repo.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code, "last upsert wins")
}

func TestPendingSignupRepository_ExpiredReadsAsNotFound(t *testing.T) {
	fake := newFakeRedis()
	repo := newTestPendingSignupRepo(fake, -1*time.Second) // already expired on write

	signup := &models.PendingSignup{Email: "user@example.com", Code: "123456", Password: "pw", CreatedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), signup))

	_, err := repo.GetByEmail(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPendingSignupRepository_DeleteIsIdempotent(t *testing.T) {
	fake := newFakeRedis()
	repo := newTestPendingSignupRepo(fake, 10*time.Minute)

	signup := &models.PendingSignup{Email: "user@example.com", Code: "123456", Password: "pw", CreatedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), signup))

	require.NoError(t, repo.DeleteByEmail(context.Background(), "user@example.com"))
	require.NoError(t, repo.DeleteByEmail(context.Background(), "user@example.com"))

	_, err := repo.GetByEmail(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPendingSignupRepository_StoreErrorMapsToPersistence(t *testing.T) {
	fake := newFakeRedis()
	fake.setErr = errors.New("connection refused")
	repo := newTestPendingSignupRepo(fake, 10*time.Minute)

	signup := &models.PendingSignup{Email: "user@example.com", Code: "123456", Password: "pw", CreatedAt: time.Now()}
	err := repo.Upsert(context.Background(), signup)
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestPendingSignupRepository_PayloadRoundTrip(t *testing.T) {
	signup := &models.PendingSignup{
		Email:     "user@example.com",
		Code:      "987654",
		Name:      "Bob",
		Password:  "hunter2",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	payload, err := json.Marshal(signup)
	require.NoError(t, err)

	var decoded models.PendingSignup
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, signup.Code, decoded.Code)
	assert.True(t, signup.CreatedAt.Equal(decoded.CreatedAt))
}
