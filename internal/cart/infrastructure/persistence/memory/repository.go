// Package memory 进程内的会话购物车存储，适合单实例部署与测试
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

type entry struct {
	cart      domain.Cart
	expiresAt time.Time
}

// maxSweepInterval 两次过期清理的最大间隔
const maxSweepInterval = time.Minute

type cartRepository struct {
	mu        sync.RWMutex
	carts     map[string]entry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewCartRepository 创建内存存储；ttl 为 0 时购物车永不过期
func NewCartRepository(ttl time.Duration) domain.CartRepository {
	return newCartRepository(ttl, time.Now)
}

func newCartRepository(ttl time.Duration, now func() time.Time) *cartRepository {
	return &cartRepository{
		carts: make(map[string]entry),
		ttl:   ttl,
		now:   now,
	}
}

func (r *cartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.RLock()
	e, ok := r.carts[sessionID]
	r.mu.RUnlock()

	if !ok || r.expired(e) {
		return &domain.Cart{Items: []domain.LineItem{}}, nil
	}
	return copyCart(e.cart), nil
}

func (r *cartRepository) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	e := entry{cart: *copyCart(*cart)}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[sessionID] = e
	r.maybeEvictExpired()
	return nil
}

func (r *cartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

func (r *cartRepository) expired(e entry) bool {
	return !e.expiresAt.IsZero() && r.now().After(e.expiresAt)
}

// sweepInterval 清理间隔取 ttl 与 maxSweepInterval 中较小者
func (r *cartRepository) sweepInterval() time.Duration {
	return min(r.ttl, maxSweepInterval)
}

// maybeEvictExpired 距上次清理不足一个间隔时跳过，调用方需持有写锁
func (r *cartRepository) maybeEvictExpired() {
	if r.ttl <= 0 {
		return
	}
	now := r.now()
	if !r.lastSweep.IsZero() && now.Sub(r.lastSweep) < r.sweepInterval() {
		return
	}
	r.lastSweep = now
	for id, e := range r.carts {
		if r.expired(e) {
			delete(r.carts, id)
		}
	}
}

func copyCart(c domain.Cart) *domain.Cart {
	items := make([]domain.LineItem, len(c.Items))
	copy(items, c.Items)
	return &domain.Cart{Items: items, UpdatedAt: c.UpdatedAt}
}
