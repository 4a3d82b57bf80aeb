// Package redis 基于 Redis 的会话购物车存储，购物车以 JSON 保存并随会话过期
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

// KeyPrefix 购物车 key 前缀，完整 key 为 storefront:cart:<session>
const KeyPrefix = "storefront"

type cartRepository struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewCartRepository 创建 Redis 存储；每次保存都会刷新过期时间
func NewCartRepository(c *cache.RedisCache, ttl time.Duration) domain.CartRepository {
	return &cartRepository{cache: c, ttl: ttl}
}

func (r *cartRepository) key(sessionID string) string {
	return r.cache.Key("cart", sessionID)
}

func (r *cartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	found, err := r.cache.GetJSON(ctx, r.key(sessionID), &cart)
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	if !found || cart.Items == nil {
		cart.Items = []domain.LineItem{}
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	if err := r.cache.SetJSON(ctx, r.key(sessionID), cart, r.ttl); err != nil {
		return fmt.Errorf("redis save cart: %w", err)
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.cache.Delete(ctx, r.key(sessionID)); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}
