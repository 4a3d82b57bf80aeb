package domain

import "github.com/shopspring/decimal"

// NoAddOnID 表示"不加附加项"的哨兵 ID
const NoAddOnID = 0

// Product 可售商品，进程启动时加载，运行期不可变
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref"`
}

// AddOn 附加项（饮料），ID 为 0 时表示不加附加项
type AddOn struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref,omitempty"`
}

// NoAddOn 返回"不加附加项"，价格恒为 0
func NoAddOn() AddOn {
	return AddOn{ID: NoAddOnID, Name: "Sin bebida", UnitPrice: decimal.Zero}
}

// IsNone 是否为"不加附加项"
func (a AddOn) IsNone() bool { return a.ID == NoAddOnID }
