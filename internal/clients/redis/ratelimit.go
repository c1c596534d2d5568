package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter per (bucket, client). A nil *RateLimiter allows everything.
type RateLimiter struct {
	rdb    goredis.UniversalClient
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

type RateDecision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

func NewRateLimiter(rdb goredis.UniversalClient, prefix string, limit int, window time.Duration) *RateLimiter {
	if rdb == nil {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window, now: time.Now}
}

func (l *RateLimiter) windowKey(bucket, client string, at time.Time) string {
	slot := at.UnixNano() / int64(l.window)
	return key(l.prefix, "ratelimit", bucket, client, strconv.FormatInt(slot, 10))
}

func (l *RateLimiter) Allow(ctx context.Context, bucket, client string) (RateDecision, error) {
	if l == nil {
		return RateDecision{Allowed: true, Remaining: -1}, nil
	}
	now := l.now()
	k := l.windowKey(bucket, client, now)

	var incr *goredis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return RateDecision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	count := incr.Val()
	if count <= l.limit {
		return RateDecision{Allowed: true, Remaining: l.limit - count}, nil
	}
	windowEnd := time.Unix(0, (now.UnixNano()/int64(l.window)+1)*int64(l.window))
	return RateDecision{Allowed: false, RetryAfter: windowEnd.Sub(now)}, nil
}
