package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cart "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/order/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/lock"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// CheckoutService 结账服务：在会话锁内生成订单回执并清空购物车
type CheckoutService struct {
	repo        cart.CartRepository
	publisher   domain.EventPublisher
	locker      lock.Locker
	policy      pricing.Policy
	metrics     metrics.MetricsCollector
	lockTimeout time.Duration
	now         func() time.Time
	newID       domain.IDGenerator
}

// NewCheckoutService 创建结账服务；locker 需与购物车命令服务共用同一实例
func NewCheckoutService(
	repo cart.CartRepository,
	publisher domain.EventPublisher,
	locker lock.Locker,
	policy pricing.Policy,
	collector metrics.MetricsCollector,
	lockTimeout time.Duration,
) *CheckoutService {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &CheckoutService{
		repo:        repo,
		publisher:   publisher,
		locker:      locker,
		policy:      policy,
		metrics:     collector,
		lockTimeout: lockTimeout,
		now:         time.Now,
		newID:       domain.NewOrderID,
	}
}

// Checkout 结账；购物车为空时返回 EMPTY_CART 且不做任何修改
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (*domain.Order, error) {
	unlock, err := lock.Acquire(ctx, s.locker, cartapp.SessionLockKey(sessionID), s.lockTimeout)
	if err != nil {
		s.metrics.RecordCheckout("error", 0)
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	defer unlock()

	current, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		s.metrics.RecordCheckout("error", 0)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	order, err := domain.Checkout(*current, s.policy, s.now(), s.newID)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			s.metrics.RecordCheckout(string(cart.CodeEmptyCart), 0)
			logger.Info(ctx, "checkout rejected: empty cart")
		} else {
			s.metrics.RecordCheckout("error", 0)
		}
		return nil, err
	}
	order.SessionID = sessionID

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.metrics.RecordCheckout("error", 0)
		return nil, fmt.Errorf("failed to clear cart after checkout: %w", err)
	}

	value, _ := order.Totals.GrandTotal.Float64()
	s.metrics.RecordCheckout("ok", value)
	logger.Info(ctx, "order placed",
		"order_id", order.ID,
		"lines", len(order.Items),
		"grand_total", pricing.FormatMoney(order.Totals.GrandTotal),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.TopicOrderPlaced, sessionID, domain.NewOrderPlacedEvent(order)); err != nil {
			s.metrics.RecordPublishFailure(domain.TopicOrderPlaced)
			logger.Warn(ctx, "failed to publish event", "topic", domain.TopicOrderPlaced, "error", err)
		}
	}
	return &order, nil
}
