// Package domain 结账领域：把购物车转换为一次性的订单回执
package domain

import (
	"time"

	"github.com/google/uuid"
	cart "github.com/wyfcoding/storefront/internal/cart/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

// IDGenerator 订单号生成器
type IDGenerator func() string

// NewOrderID 默认订单号：ORD- 加 UUID
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// Order 订单回执，只用于返回和事件，不持久化
type Order struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Items     []cart.LineItem `json:"items"`
	Totals    pricing.Totals  `json:"totals"`
	ItemCount int             `json:"item_count"`
	PlacedAt  time.Time       `json:"placed_at"`
}

// Checkout 由购物车生成订单回执；空购物车返回 EMPTY_CART，入参不会被修改
func Checkout(c cart.Cart, policy pricing.Policy, now time.Time, newID IDGenerator) (Order, error) {
	if c.IsEmpty() {
		return Order{}, cart.ErrEmptyCart
	}
	if newID == nil {
		newID = NewOrderID
	}

	items := make([]cart.LineItem, len(c.Items))
	copy(items, c.Items)

	return Order{
		ID:        newID(),
		Items:     items,
		Totals:    c.Totals(policy),
		ItemCount: c.Count(),
		PlacedAt:  now,
	}, nil
}
