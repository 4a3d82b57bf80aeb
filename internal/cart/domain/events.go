package domain

import "time"

const (
	TopicItemAdded      = "cart.item.added"
	TopicItemUpdated    = "cart.item.updated"
	TopicItemRemoved    = "cart.item.removed"
	TopicProductRemoved = "cart.product.removed"
	TopicCartCleared    = "cart.cleared"
)

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	SessionID     string    `json:"session_id"`
	ItemKey       string    `json:"item_key"`
	ProductID     int       `json:"product_id"`
	Quantity      int       `json:"quantity"`
	AddOnID       int       `json:"addon_id"`
	AddOnQuantity int       `json:"addon_quantity"`
	LineTotal     string    `json:"line_total"`
	CartCount     int       `json:"cart_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// CartItemUpdatedEvent 购物车行数量变更事件，PreviousKey 为被替换行的 key
type CartItemUpdatedEvent struct {
	SessionID     string    `json:"session_id"`
	ItemKey       string    `json:"item_key"`
	PreviousKey   string    `json:"previous_key"`
	Quantity      int       `json:"quantity"`
	AddOnQuantity int       `json:"addon_quantity"`
	LineTotal     string    `json:"line_total"`
	Timestamp     time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	SessionID string    `json:"session_id"`
	ItemKey   string    `json:"item_key"`
	Timestamp time.Time `json:"timestamp"`
}

// CartProductRemovedEvent 按商品移除事件
type CartProductRemovedEvent struct {
	SessionID    string    `json:"session_id"`
	ProductID    int       `json:"product_id"`
	RemovedLines int       `json:"removed_lines"`
	Timestamp    time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
