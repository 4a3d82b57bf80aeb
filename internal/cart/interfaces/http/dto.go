package http

import (
	"time"

	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

// AddItemRequest 加入购物车请求
type AddItemRequest struct {
	ProductID     int    `json:"product_id"`
	AddOnID       int    `json:"addon_id"`
	Quantity      int    `json:"quantity"`
	AddOnQuantity int    `json:"addon_quantity"`
	Key           string `json:"key"`
}

// UpdateQuantityRequest 修改数量请求，quantity 为 0 时删除该行
type UpdateQuantityRequest struct {
	Quantity      *int `json:"quantity"`
	AddOnQuantity int  `json:"addon_quantity"`
}

// LineItemDTO 行项目，金额为两位小数字符串
type LineItemDTO struct {
	Key              string    `json:"key"`
	ProductID        int       `json:"product_id"`
	ProductName      string    `json:"product_name"`
	ProductImage     string    `json:"product_image"`
	ProductUnitPrice string    `json:"product_unit_price"`
	ProductQuantity  int       `json:"product_quantity"`
	AddOnID          int       `json:"addon_id"`
	AddOnName        string    `json:"addon_name,omitempty"`
	AddOnImage       string    `json:"addon_image,omitempty"`
	AddOnUnitPrice   string    `json:"addon_unit_price"`
	AddOnQuantity    int       `json:"addon_quantity"`
	LineTotal        string    `json:"line_total"`
	AddedAt          time.Time `json:"added_at"`
}

// TotalsDTO 汇总金额
type TotalsDTO struct {
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	Shipping   string `json:"shipping"`
	GrandTotal string `json:"grand_total"`
}

func toLineItemDTO(i domain.LineItem) LineItemDTO {
	return LineItemDTO{
		Key:              i.Key,
		ProductID:        i.ProductID,
		ProductName:      i.ProductName,
		ProductImage:     i.ProductImage,
		ProductUnitPrice: pricing.FormatMoney(i.ProductUnitPrice),
		ProductQuantity:  i.ProductQuantity,
		AddOnID:          i.AddOnID,
		AddOnName:        i.AddOnName,
		AddOnImage:       i.AddOnImage,
		AddOnUnitPrice:   pricing.FormatMoney(i.AddOnUnitPrice),
		AddOnQuantity:    i.AddOnQuantity,
		LineTotal:        pricing.FormatMoney(i.LineTotal),
		AddedAt:          i.AddedAt,
	}
}

// ToTotalsDTO 汇总金额转换为字符串
func ToTotalsDTO(t pricing.Totals) TotalsDTO {
	return TotalsDTO{
		Subtotal:   pricing.FormatMoney(t.Subtotal),
		Tax:        pricing.FormatMoney(t.Tax),
		Shipping:   pricing.FormatMoney(t.Shipping),
		GrandTotal: pricing.FormatMoney(t.GrandTotal),
	}
}

func toLineItemDTOs(view *application.CartView) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		out = append(out, toLineItemDTO(item))
	}
	return out
}
