package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitCountScript bumps the window counter and arms the expiry on the hit
// that opens the window. It returns the running count; the comparison
// against the policy limit stays on the Go side.
const hitCountScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return hits
`

// RedisLimiter shares rate-limit windows across API replicas. Any redis
// error fails open: throttling is protection, not a correctness guarantee.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(hitCountScript),
	}
}

func (l *RedisLimiter) Allow(p Policy, subject string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if subject == "" || p.Limit <= 0 || p.Window <= 0 {
		return true
	}
	ttl := p.Window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	hits, err := l.script.Run(ctx, l.client, []string{p.key(subject)}, ttl).Int64()
	if err != nil {
		return true
	}
	return hits <= int64(p.Limit)
}
