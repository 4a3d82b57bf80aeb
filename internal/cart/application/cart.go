package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// CartApplicationService 购物车服务门面，整合命令服务和查询服务
type CartApplicationService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
}

// NewCartApplicationService 创建购物车服务门面实例
func NewCartApplicationService(
	commandService *CartCommandService,
	queryService *CartQueryService,
) *CartApplicationService {
	return &CartApplicationService{
		commandService: commandService,
		queryService:   queryService,
	}
}

// GetCart 获取会话购物车
func (s *CartApplicationService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.queryService.GetCart(ctx, sessionID)
}

// GetCartView 获取购物车页面数据
func (s *CartApplicationService) GetCartView(ctx context.Context, sessionID string) (*CartView, error) {
	return s.queryService.GetCartView(ctx, sessionID)
}

// GetCartSummary 获取购物车数量与小计
func (s *CartApplicationService) GetCartSummary(ctx context.Context, sessionID string) (*CartSummary, error) {
	return s.queryService.GetCartSummary(ctx, sessionID)
}

// AddItem 处理添加商品到购物车
func (s *CartApplicationService) AddItem(ctx context.Context, cmd AddItemCommand) (*AddItemResult, error) {
	return s.commandService.AddItem(ctx, cmd)
}

// UpdateQuantity 处理修改行数量
func (s *CartApplicationService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) (*UpdateQuantityResult, error) {
	return s.commandService.UpdateQuantity(ctx, cmd)
}

// RemoveItem 处理从购物车移除一行
func (s *CartApplicationService) RemoveItem(ctx context.Context, sessionID, key string) (*RemoveItemResult, error) {
	return s.commandService.RemoveItem(ctx, RemoveItemCommand{SessionID: sessionID, Key: key})
}

// RemoveProduct 处理移除某商品的全部行
func (s *CartApplicationService) RemoveProduct(ctx context.Context, sessionID string, productID int) (*RemoveProductResult, error) {
	return s.commandService.RemoveProduct(ctx, RemoveProductCommand{SessionID: sessionID, ProductID: productID})
}

// ClearCart 处理清空购物车
func (s *CartApplicationService) ClearCart(ctx context.Context, sessionID string) error {
	return s.commandService.ClearCart(ctx, ClearCartCommand{SessionID: sessionID})
}
