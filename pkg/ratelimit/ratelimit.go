// Package ratelimit 限流器：Redis（redis_rate，多实例共享配额）与进程内令牌桶，
// 以及 Redis 不可用时退回本地限流的组合
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	// Allow 检查 key 在 limit 规则下是否放行
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit 每 Period 补充 Rate 个令牌，桶容量 Burst
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// PerSecond 每秒 rate 个请求；burst 不大于 0 时取 rate
func PerSecond(rate, burst int) Limit {
	if burst <= 0 {
		burst = rate
	}
	return Limit{Rate: rate, Period: time.Second, Burst: burst}
}

// Result 限流检查结果
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisRateLimiter GCRA 限流，配额在所有实例间共享
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
	prefix  string
}

// NewRedisRateLimiter 创建 Redis 限流器，prefix 加在每个 key 前
func NewRedisRateLimiter(rdb *redis.Client, prefix string) *RedisRateLimiter {
	return &RedisRateLimiter{limiter: redis_rate.NewLimiter(rdb), prefix: prefix}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, r.prefix+key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit %s: %w", key, err)
	}
	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}

type fallback struct {
	primary   RateLimiter
	secondary RateLimiter
	onError   func(ctx context.Context, err error)
}

// WithFallback primary 出错时改用 secondary 判定，onError 可为空
func WithFallback(primary, secondary RateLimiter, onError func(ctx context.Context, err error)) RateLimiter {
	return &fallback{primary: primary, secondary: secondary, onError: onError}
}

func (f *fallback) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := f.primary.Allow(ctx, key, limit)
	if err == nil {
		return res, nil
	}
	if f.onError != nil {
		f.onError(ctx, err)
	}
	return f.secondary.Allow(ctx, key, limit)
}
