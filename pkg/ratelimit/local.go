package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxIdleKeys key 数超过该值时回收已补满的令牌桶
const maxIdleKeys = 1024

type localEntry struct {
	limiter *rate.Limiter
	limit   Limit
}

// LocalRateLimiter 进程内按 key 的令牌桶（x/time/rate），未使用 Redis 时启用
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	now      func() time.Time
}

// NewLocalRateLimiter 创建进程内限流器
func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*localEntry),
		now:      time.Now,
	}
}

// Allow 检查是否放行；拒绝时归还预占的令牌
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit Limit) (*Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return &Result{Allowed: true, Remaining: limit.Burst}, nil
	}
	perSecond := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[key]
	if !ok || e.limit != limit {
		e = &localEntry{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst), limit: limit}
		l.limiters[key] = e
	}

	res := &Result{}
	r := e.limiter.ReserveN(now, 1)
	switch delay := r.DelayFrom(now); {
	case !r.OK():
		// burst 为 0 时永远无法放行
		res.RetryAfter = limit.Period
	case delay > 0:
		r.CancelAt(now)
		res.RetryAfter = delay
	default:
		res.Allowed = true
	}

	tokens := e.limiter.TokensAt(now)
	if tokens > 0 {
		res.Remaining = int(tokens)
	}
	res.ResetAfter = seconds((float64(limit.Burst) - tokens) / perSecond)

	l.evictFull(now)
	return res, nil
}

// evictFull 回收已经补满的令牌桶，调用方需持有锁
func (l *LocalRateLimiter) evictFull(now time.Time) {
	if len(l.limiters) < maxIdleKeys {
		return
	}
	for k, e := range l.limiters {
		if e.limiter.TokensAt(now) >= float64(e.limit.Burst) {
			delete(l.limiters, k)
		}
	}
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
