package domain

import (
	"time"

	"github.com/shopspring/decimal"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

// LineItem 购物车行项目，创建后不可变；展示字段在加入时冗余保存，
// 目录变更不会影响已加入的行
type LineItem struct {
	Key              string          `json:"key"`
	ProductID        int             `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductImage     string          `json:"product_image"`
	ProductUnitPrice decimal.Decimal `json:"product_unit_price"`
	ProductQuantity  int             `json:"product_quantity"`
	AddOnID          int             `json:"addon_id"`
	AddOnName        string          `json:"addon_name,omitempty"`
	AddOnImage       string          `json:"addon_image,omitempty"`
	AddOnUnitPrice   decimal.Decimal `json:"addon_unit_price"`
	AddOnQuantity    int             `json:"addon_quantity"`
	LineTotal        decimal.Decimal `json:"line_total"`
	AddedAt          time.Time       `json:"added_at"`
}

// HasAddOn 是否带附加项
func (i LineItem) HasAddOn() bool { return i.AddOnID != 0 }

// Cart 某个会话的购物车，按加入顺序排列
type Cart struct {
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsEmpty 购物车是否为空
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Count 购物车角标数量：所有行的商品数量之和，不含附加项数量
func (c Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.ProductQuantity
	}
	return n
}

// Subtotal 各行金额之和
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}

// Totals 按计价策略实时计算汇总金额
func (c Cart) Totals(policy pricing.Policy) pricing.Totals {
	lines := make([]decimal.Decimal, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, item.LineTotal)
	}
	return policy.Totals(lines)
}

// Find 根据 key 查找行项目
func (c Cart) Find(key string) (LineItem, int, bool) {
	for i, item := range c.Items {
		if item.Key == key {
			return item, i, true
		}
	}
	return LineItem{}, -1, false
}

// clone 复制行切片，保证领域操作不修改入参
func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, UpdatedAt: c.UpdatedAt}
}
