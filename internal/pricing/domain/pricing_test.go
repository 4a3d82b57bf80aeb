package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name         string
		productPrice string
		qty          int
		addOnPrice   string
		addOnQty     int
		want         string
	}{
		{"product only", "25.00", 2, "0", 0, "50.00"},
		{"with beverage", "18.50", 1, "1.75", 1, "20.25"},
		{"more drinks than dishes", "22.00", 1, "1.60", 3, "26.80"},
		{"free product", "0", 3, "1.00", 2, "2.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceLine(money(tt.productPrice), tt.qty, money(tt.addOnPrice), tt.addOnQty)
			assert.Equal(t, tt.want, FormatMoney(got))
		})
	}
}

func TestPriceLineNoDrift(t *testing.T) {
	// 0.10 累加一千次在二进制浮点数下会产生误差
	lines := make([]decimal.Decimal, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, PriceLine(money("0.10"), 1, decimal.Zero, 0))
	}
	totals := DefaultPolicy().Totals(lines)
	assert.True(t, totals.Subtotal.Equal(money("100")), totals.Subtotal.String())
}

func TestTotals(t *testing.T) {
	p := DefaultPolicy()

	t.Run("empty cart is all zero", func(t *testing.T) {
		got := p.Totals(nil)
		for _, d := range []decimal.Decimal{got.Subtotal, got.Tax, got.Shipping, got.GrandTotal} {
			assert.True(t, d.IsZero())
		}
	})

	t.Run("threshold reached ships free", func(t *testing.T) {
		got := p.Totals([]decimal.Decimal{money("50.00")})
		assert.Equal(t, "50.00", FormatMoney(got.Subtotal))
		assert.Equal(t, "5.00", FormatMoney(got.Tax))
		assert.Equal(t, "0.00", FormatMoney(got.Shipping))
		assert.Equal(t, "55.00", FormatMoney(got.GrandTotal))
	})

	t.Run("below threshold pays shipping", func(t *testing.T) {
		got := p.Totals([]decimal.Decimal{money("20.25"), money("18.50")})
		assert.Equal(t, "38.75", FormatMoney(got.Subtotal))
		assert.Equal(t, "3.88", FormatMoney(got.Tax))
		assert.Equal(t, "5.00", FormatMoney(got.Shipping))
		assert.Equal(t, "47.63", FormatMoney(got.GrandTotal))
	})

	t.Run("zero priced lines still pay shipping", func(t *testing.T) {
		got := p.Totals([]decimal.Decimal{decimal.Zero})
		assert.Equal(t, "0.00", FormatMoney(got.Subtotal))
		assert.Equal(t, "0.00", FormatMoney(got.Tax))
		assert.Equal(t, "5.00", FormatMoney(got.Shipping))
		assert.Equal(t, "5.00", FormatMoney(got.GrandTotal))
	})

	t.Run("empty slice is not a zero priced cart", func(t *testing.T) {
		got := p.Totals([]decimal.Decimal{})
		assert.True(t, got.Shipping.IsZero())
		assert.True(t, got.GrandTotal.IsZero())
	})

	t.Run("tax is ten percent", func(t *testing.T) {
		for _, s := range []string{"1.00", "49.99", "50.00", "123.40"} {
			got := p.Totals([]decimal.Decimal{money(s)})
			assert.True(t, got.Tax.Equal(RoundMoney(money(s).Mul(money("0.10")))), s)
		}
	})
}

func TestNewPolicy(t *testing.T) {
	t.Run("defaults on empty", func(t *testing.T) {
		p, err := NewPolicy("", "", "")
		require.NoError(t, err)
		assert.True(t, p.TaxRate.Equal(money("0.10")))
		assert.True(t, p.ShippingThreshold.Equal(money("50")))
		assert.True(t, p.ShippingFee.Equal(money("5")))
	})

	t.Run("overrides", func(t *testing.T) {
		p, err := NewPolicy("0.21", "30", "2.50")
		require.NoError(t, err)
		got := p.Totals([]decimal.Decimal{money("20.00")})
		assert.Equal(t, "4.20", FormatMoney(got.Tax))
		assert.Equal(t, "2.50", FormatMoney(got.Shipping))
		assert.Equal(t, "26.70", FormatMoney(got.GrandTotal))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewPolicy("ten", "", "")
		assert.Error(t, err)
		_, err = NewPolicy("", "", "-1")
		assert.Error(t, err)
	})
}
