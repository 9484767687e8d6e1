package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	failureWindow = 15 * time.Minute
	failureBudget = 5
	keyPrefix     = "loginfail:"
)

// LoginLimiter throttles repeated failed logins with a fixed window per
// identifier. It is advisory and fails open: a Redis outage is logged and
// never blocks a login, so an availability incident cannot become a global
// lockout.
type LoginLimiter struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewLoginLimiter(client *redis.Client, log zerolog.Logger) *LoginLimiter {
	return &LoginLimiter{client: client, log: log}
}

// TooManyFailures reports whether key exhausted the failure budget within
// the current window.
func (l *LoginLimiter) TooManyFailures(ctx context.Context, key string) bool {
	n, err := l.client.Get(ctx, keyPrefix+key).Int()
	if err != nil {
		if err != redis.Nil {
			l.log.Warn().Err(err).Msg("login limiter check failed, allowing attempt")
		}
		return false
	}
	return n >= failureBudget
}

// RecordFailure counts one failed attempt against key. The window starts at
// the first failure and is not extended by later ones.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) {
	k := keyPrefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("login limiter increment failed")
		return
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, failureWindow).Err(); err != nil {
			l.log.Warn().Err(err).Msg("login limiter expire failed")
		}
	}
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if err := l.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		l.log.Warn().Err(err).Msg("login limiter reset failed")
	}
}
