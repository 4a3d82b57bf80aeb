package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces 金额保留的小数位数
const MoneyPlaces = 2

const (
	// DefaultTaxRate 默认税率 10%
	DefaultTaxRate = "0.10"
	// DefaultShippingThreshold 默认免运费门槛
	DefaultShippingThreshold = "50.00"
	// DefaultShippingFee 默认运费
	DefaultShippingFee = "5.00"
)

// Policy 计价策略：税率与运费规则
type Policy struct {
	TaxRate           decimal.Decimal
	ShippingThreshold decimal.Decimal
	ShippingFee       decimal.Decimal
}

// Totals 订单汇总金额，每次读取时由购物车实时计算，不做存储
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// DefaultPolicy 返回默认计价策略
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:           decimal.RequireFromString(DefaultTaxRate),
		ShippingThreshold: decimal.RequireFromString(DefaultShippingThreshold),
		ShippingFee:       decimal.RequireFromString(DefaultShippingFee),
	}
}

// NewPolicy 由字符串形式的配置构建计价策略，空字符串使用默认值
func NewPolicy(taxRate, shippingThreshold, shippingFee string) (Policy, error) {
	p := DefaultPolicy()

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"tax_rate", taxRate, &p.TaxRate},
		{"shipping_threshold", shippingThreshold, &p.ShippingThreshold},
		{"shipping_fee", shippingFee, &p.ShippingFee},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Policy{}, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		if d.IsNegative() {
			return Policy{}, fmt.Errorf("%s must not be negative: %s", f.name, f.raw)
		}
		*f.dst = d
	}
	return p, nil
}

// PriceLine 计算单行金额：商品单价×数量 + 附加项单价×数量
func PriceLine(productUnitPrice decimal.Decimal, productQty int, addOnUnitPrice decimal.Decimal, addOnQty int) decimal.Decimal {
	product := productUnitPrice.Mul(decimal.NewFromInt(int64(productQty)))
	addOn := addOnUnitPrice.Mul(decimal.NewFromInt(int64(addOnQty)))
	return RoundMoney(product.Add(addOn))
}

// Totals 根据各行金额计算小计、税、运费与总计
func (p Policy) Totals(lineTotals []decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = RoundMoney(subtotal)

	tax := RoundMoney(subtotal.Mul(p.TaxRate))

	// 只有空购物车免运费，零价商品同样计运费
	shipping := decimal.Zero
	if len(lineTotals) > 0 && subtotal.LessThan(p.ShippingThreshold) {
		shipping = p.ShippingFee
	}

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: RoundMoney(subtotal.Add(tax).Add(shipping)),
	}
}

// RoundMoney 四舍五入到分
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatMoney 格式化金额，固定两位小数
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
