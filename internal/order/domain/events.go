package domain

import (
	"time"

	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

// TopicOrderPlaced 下单成功事件类型
const TopicOrderPlaced = "order.placed"

// OrderPlacedEvent 下单成功事件，金额为两位小数字符串
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	SessionID  string    `json:"session_id"`
	Lines      int       `json:"lines"`
	ItemCount  int       `json:"item_count"`
	Subtotal   string    `json:"subtotal"`
	Tax        string    `json:"tax"`
	Shipping   string    `json:"shipping"`
	GrandTotal string    `json:"grand_total"`
	PlacedAt   time.Time `json:"placed_at"`
}

// NewOrderPlacedEvent 由订单回执构造事件
func NewOrderPlacedEvent(o Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    o.ID,
		SessionID:  o.SessionID,
		Lines:      len(o.Items),
		ItemCount:  o.ItemCount,
		Subtotal:   pricing.FormatMoney(o.Totals.Subtotal),
		Tax:        pricing.FormatMoney(o.Totals.Tax),
		Shipping:   pricing.FormatMoney(o.Totals.Shipping),
		GrandTotal: pricing.FormatMoney(o.Totals.GrandTotal),
		PlacedAt:   o.PlacedAt,
	}
}
