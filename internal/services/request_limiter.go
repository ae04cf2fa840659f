package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// PasscodeRequestLimiter bounds how often a passcode may be requested for
// one email. Fail-open: limiter trouble never blocks a signup.
type PasscodeRequestLimiter interface {
	Allow(ctx context.Context, email string) bool
}

const passcodeLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisPasscodeRequestLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	logger *slog.Logger
}

// NewRedisPasscodeRequestLimiter counts requests per email in a fixed
// window using a single INCR+EXPIRE script.
func NewRedisPasscodeRequestLimiter(client *redis.Client, window time.Duration, max int, logger *slog.Logger) PasscodeRequestLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisPasscodeRequestLimiter{
		client: client,
		window: window,
		max:    max,
		logger: logger,
	}
}

func (l *redisPasscodeRequestLimiter) Allow(ctx context.Context, email string) bool {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	count, err := l.client.Eval(ctx, passcodeLimitScript, []string{"signup:reqs:" + key}, seconds).Int()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("passcode request limiter unavailable", slog.Any("error", err))
		}
		return true
	}
	return count <= l.max
}
