package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cart "github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

func TestCheckoutEmptyCart(t *testing.T) {
	_, err := Checkout(cart.Cart{}, pricing.DefaultPolicy(), time.Now(), nil)
	require.ErrorIs(t, err, cart.ErrEmptyCart)

	var cartErr *cart.CartError
	require.ErrorAs(t, err, &cartErr)
	assert.Equal(t, cart.KindPrecondition, cartErr.Kind())
}

func TestCheckoutReceipt(t *testing.T) {
	store := cart.NewStore(catalog.DefaultCatalog())
	c, _, err := store.AddItem(cart.Cart{}, cart.AddItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	placed := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	order, err := Checkout(c, pricing.DefaultPolicy(), placed, func() string { return "ORD-1" })
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, placed, order.PlacedAt)
	assert.Equal(t, 2, order.ItemCount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "55.00", pricing.FormatMoney(order.Totals.GrandTotal))

	order.Items[0].Key = "changed"
	assert.NotEqual(t, "changed", c.Items[0].Key, "checkout copies the lines")

	ev := NewOrderPlacedEvent(order)
	assert.Equal(t, "ORD-1", ev.OrderID)
	assert.Equal(t, 1, ev.Lines)
	assert.Equal(t, "50.00", ev.Subtotal)
	assert.Equal(t, "5.00", ev.Tax)
	assert.Equal(t, "0.00", ev.Shipping)
	assert.Equal(t, "55.00", ev.GrandTotal)
}

func TestNewOrderID(t *testing.T) {
	a, b := NewOrderID(), NewOrderID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "ORD-")
}
