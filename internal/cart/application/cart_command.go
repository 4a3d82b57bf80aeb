package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/lock"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	SessionID     string
	ProductID     int
	AddOnID       int
	Quantity      int
	AddOnQuantity int
	Key           string
}

// UpdateQuantityCommand 修改行数量命令，Quantity 为 0 时删除该行
type UpdateQuantityCommand struct {
	SessionID     string
	Key           string
	Quantity      int
	AddOnQuantity int
}

// RemoveItemCommand 从购物车移除一行命令
type RemoveItemCommand struct {
	SessionID string
	Key       string
}

// RemoveProductCommand 移除某商品全部行命令
type RemoveProductCommand struct {
	SessionID string
	ProductID int
}

// ClearCartCommand 清空购物车命令
type ClearCartCommand struct {
	SessionID string
}

// AddItemResult 加入购物车结果
type AddItemResult struct {
	Item      domain.LineItem
	CartCount int
}

// UpdateQuantityResult 修改数量结果；Removed 为 true 时 Item 为零值，否则 Item.Key 是替换行的新 key
type UpdateQuantityResult struct {
	Item        domain.LineItem
	PreviousKey string
	Removed     bool
	CartCount   int
}

// RemoveItemResult 移除行结果
type RemoveItemResult struct {
	Removed   bool
	CartCount int
}

// RemoveProductResult 按商品移除结果
type RemoveProductResult struct {
	RemovedLines int
	CartCount    int
}

// CartCommandService 购物车命令服务。同一会话的命令串行执行，领域操作失败时不写回存储
type CartCommandService struct {
	store       *domain.Store
	repo        domain.CartRepository
	publisher   domain.EventPublisher
	locker      lock.Locker
	metrics     metrics.MetricsCollector
	lockTimeout time.Duration
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	store *domain.Store,
	repo domain.CartRepository,
	publisher domain.EventPublisher,
	locker lock.Locker,
	collector metrics.MetricsCollector,
	lockTimeout time.Duration,
) *CartCommandService {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &CartCommandService{
		store:       store,
		repo:        repo,
		publisher:   publisher,
		locker:      locker,
		metrics:     collector,
		lockTimeout: lockTimeout,
	}
}

// AddItem 处理添加商品到购物车
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) (*AddItemResult, error) {
	var result AddItemResult
	err := s.mutate(ctx, "add_item", cmd.SessionID, func(cart domain.Cart) (domain.Cart, bool, error) {
		next, item, err := s.store.AddItem(cart, domain.AddItemInput{
			ProductID:     cmd.ProductID,
			AddOnID:       cmd.AddOnID,
			Quantity:      cmd.Quantity,
			AddOnQuantity: cmd.AddOnQuantity,
			Key:           cmd.Key,
		})
		if err != nil {
			return cart, false, err
		}
		result = AddItemResult{Item: item, CartCount: next.Count()}
		return next, true, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordItemsAdded(result.Item.ProductQuantity)
	s.publish(ctx, domain.TopicItemAdded, cmd.SessionID, domain.CartItemAddedEvent{
		SessionID:     cmd.SessionID,
		ItemKey:       result.Item.Key,
		ProductID:     result.Item.ProductID,
		Quantity:      result.Item.ProductQuantity,
		AddOnID:       result.Item.AddOnID,
		AddOnQuantity: result.Item.AddOnQuantity,
		LineTotal:     pricing.FormatMoney(result.Item.LineTotal),
		CartCount:     result.CartCount,
		Timestamp:     result.Item.AddedAt,
	})
	return &result, nil
}

// UpdateQuantity 处理修改行数量
func (s *CartCommandService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) (*UpdateQuantityResult, error) {
	var result UpdateQuantityResult
	err := s.mutate(ctx, "update_quantity", cmd.SessionID, func(cart domain.Cart) (domain.Cart, bool, error) {
		next, item, err := s.store.UpdateQuantity(cart, cmd.Key, cmd.Quantity, cmd.AddOnQuantity)
		if err != nil {
			return cart, false, err
		}
		result = UpdateQuantityResult{Item: item, PreviousKey: cmd.Key, Removed: cmd.Quantity == 0, CartCount: next.Count()}
		return next, true, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Removed {
		s.publish(ctx, domain.TopicItemRemoved, cmd.SessionID, domain.CartItemRemovedEvent{
			SessionID: cmd.SessionID,
			ItemKey:   cmd.Key,
			Timestamp: time.Now(),
		})
	} else {
		s.publish(ctx, domain.TopicItemUpdated, cmd.SessionID, domain.CartItemUpdatedEvent{
			SessionID:     cmd.SessionID,
			ItemKey:       result.Item.Key,
			PreviousKey:   cmd.Key,
			Quantity:      result.Item.ProductQuantity,
			AddOnQuantity: result.Item.AddOnQuantity,
			LineTotal:     pricing.FormatMoney(result.Item.LineTotal),
			Timestamp:     result.Item.AddedAt,
		})
	}
	return &result, nil
}

// RemoveItem 处理移除一行；key 不存在时返回 Removed=false 而不是错误
func (s *CartCommandService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) (*RemoveItemResult, error) {
	var result RemoveItemResult
	err := s.mutate(ctx, "remove_item", cmd.SessionID, func(cart domain.Cart) (domain.Cart, bool, error) {
		next, removed := domain.RemoveItem(cart, cmd.Key)
		result = RemoveItemResult{Removed: removed, CartCount: next.Count()}
		return next, removed, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Removed {
		s.publish(ctx, domain.TopicItemRemoved, cmd.SessionID, domain.CartItemRemovedEvent{
			SessionID: cmd.SessionID,
			ItemKey:   cmd.Key,
			Timestamp: time.Now(),
		})
	}
	return &result, nil
}

// RemoveProduct 处理移除某商品的全部行
func (s *CartCommandService) RemoveProduct(ctx context.Context, cmd RemoveProductCommand) (*RemoveProductResult, error) {
	var result RemoveProductResult
	err := s.mutate(ctx, "remove_product", cmd.SessionID, func(cart domain.Cart) (domain.Cart, bool, error) {
		next, n := domain.RemoveProduct(cart, cmd.ProductID)
		result = RemoveProductResult{RemovedLines: n, CartCount: next.Count()}
		return next, n > 0, nil
	})
	if err != nil {
		return nil, err
	}

	if result.RemovedLines > 0 {
		s.publish(ctx, domain.TopicProductRemoved, cmd.SessionID, domain.CartProductRemovedEvent{
			SessionID:    cmd.SessionID,
			ProductID:    cmd.ProductID,
			RemovedLines: result.RemovedLines,
			Timestamp:    time.Now(),
		})
	}
	return &result, nil
}

// ClearCart 处理清空购物车
func (s *CartCommandService) ClearCart(ctx context.Context, cmd ClearCartCommand) error {
	unlock, err := s.lock(ctx, cmd.SessionID)
	if err != nil {
		s.metrics.RecordCartCommand("clear_cart", resultOf(err))
		return err
	}
	defer unlock()

	if err := s.repo.Delete(ctx, cmd.SessionID); err != nil {
		s.metrics.RecordCartCommand("clear_cart", resultOf(err))
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.metrics.RecordCartCommand("clear_cart", "ok")

	s.publish(ctx, domain.TopicCartCleared, cmd.SessionID, domain.CartClearedEvent{
		SessionID: cmd.SessionID,
		Timestamp: time.Now(),
	})
	return nil
}

// mutate 在会话锁内执行 加载 -> 领域操作 -> 保存；fn 返回 changed=false 时跳过保存
func (s *CartCommandService) mutate(
	ctx context.Context,
	command, sessionID string,
	fn func(domain.Cart) (domain.Cart, bool, error),
) (err error) {
	defer func() { s.metrics.RecordCartCommand(command, resultOf(err)) }()

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	next, changed, err := fn(*current)
	if err != nil {
		logger.Debug(ctx, "cart command rejected", "command", command, "error", err)
		return err
	}
	if !changed {
		return nil
	}

	if err := s.repo.Save(ctx, sessionID, &next); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *CartCommandService) lock(ctx context.Context, sessionID string) (func(), error) {
	return lockSession(ctx, s.locker, s.lockTimeout, sessionID)
}

func (s *CartCommandService) publish(ctx context.Context, topic, sessionID string, event any) {
	publishEvent(ctx, s.publisher, s.metrics, topic, sessionID, event)
}

// lockSession 获取会话锁，购物车与结账共用 cart:<session> 这个 key
func lockSession(ctx context.Context, locker lock.Locker, timeout time.Duration, sessionID string) (func(), error) {
	unlock, err := lock.Acquire(ctx, locker, SessionLockKey(sessionID), timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	return unlock, nil
}

// SessionLockKey 会话锁的 key
func SessionLockKey(sessionID string) string {
	return "cart:" + sessionID
}

// publishEvent 发布领域事件；购物车已经保存，发布失败只记录日志
func publishEvent(ctx context.Context, publisher domain.EventPublisher, collector metrics.MetricsCollector, topic, key string, event any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, topic, key, event); err != nil {
		collector.RecordPublishFailure(topic)
		logger.Warn(ctx, "failed to publish event", "topic", topic, "error", err)
	}
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	var cartErr *domain.CartError
	if errors.As(err, &cartErr) {
		return string(cartErr.Code)
	}
	return "error"
}
