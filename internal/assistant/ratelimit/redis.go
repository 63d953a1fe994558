package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/portfolio-assistant/server/internal/assistant/model"
	errx "github.com/portfolio-assistant/server/internal/core/error"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

// acquireScript applies the fixed-window rule atomically.
// KEYS[1] = window hash, ARGV = now (ms), window (ms), max requests.
var acquireScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local start = tonumber(redis.call('HGET', key, 'start') or '0')
local count = tonumber(redis.call('HGET', key, 'count') or '0')
if now - start > window then
  start = now
  count = 0
end
local allowed = 0
if count < max then
  count = count + 1
  allowed = 1
end
redis.call('HSET', key, 'start', start, 'count', count)
redis.call('PEXPIRE', key, window * 2)
return allowed
`)

// RedisWindow keeps a session's window in Redis so that several server
// instances share one quota per session.
type RedisWindow struct {
	rdb         redis.Scripter
	key         string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRedisWindow creates a Redis-backed window for the given session.
func NewRedisWindow(rdb redis.Scripter, sessionID string, cfg model.RateLimitConfig) *RedisWindow {
	return &RedisWindow{
		rdb:         rdb,
		key:         windowKey(sessionID),
		maxRequests: normalizeMax(cfg.MaxRequests),
		window:      normalizeWindow(cfg.Window),
		now:         time.Now,
	}
}

func windowKey(sessionID string) string {
	return fmt.Sprintf("ratelimit:%s", sessionID)
}

// TryAcquire denies the attempt when Redis is unreachable; the turn is then
// answered by the fallback responder.
func (w *RedisWindow) TryAcquire(ctx context.Context) bool {
	allowed, err := acquireScript.Run(ctx, w.rdb, []string{w.key},
		w.now().UnixMilli(), w.window.Milliseconds(), w.maxRequests).Int()
	if err != nil {
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", w.key).Msg("rate limit check failed; denying remote call")
		return false
	}
	return allowed == 1
}

var _ Limiter = (*RedisWindow)(nil)

// Factory builds the limiter owned by a new session.
type Factory func(sessionID string) Limiter

// MemoryFactory gives every session its own in-memory window.
func MemoryFactory(cfg model.RateLimitConfig) Factory {
	return func(string) Limiter {
		return NewWindowFromConfig(cfg)
	}
}

// RedisFactory gives every session a Redis-backed window.
func RedisFactory(rdb redis.Scripter, cfg model.RateLimitConfig) Factory {
	return func(sessionID string) Limiter {
		return NewRedisWindow(rdb, sessionID, cfg)
	}
}
