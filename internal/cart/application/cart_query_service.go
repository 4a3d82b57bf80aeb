package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

// CartView 购物车页面数据：行项目、汇总金额与角标数量
type CartView struct {
	Items  []domain.LineItem
	Totals pricing.Totals
	Count  int
}

// CartSummary 商品列表页使用的购物车摘要
type CartSummary struct {
	Count    int
	Subtotal decimal.Decimal
}

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo   domain.CartRepository
	policy pricing.Policy
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(
	repo domain.CartRepository,
	policy pricing.Policy,
) *CartQueryService {
	return &CartQueryService{
		repo:   repo,
		policy: policy,
	}
}

// GetCart 获取会话购物车，会话没有购物车时返回空购物车
func (s *CartQueryService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// GetCartView 获取购物车页面数据，金额按当前计价策略实时计算
func (s *CartQueryService) GetCartView(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return &CartView{
		Items:  items,
		Totals: cart.Totals(s.policy),
		Count:  cart.Count(),
	}, nil
}

// GetCartSummary 获取购物车数量与小计
func (s *CartQueryService) GetCartSummary(ctx context.Context, sessionID string) (*CartSummary, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &CartSummary{
		Count:    cart.Count(),
		Subtotal: pricing.RoundMoney(cart.Subtotal()),
	}, nil
}
