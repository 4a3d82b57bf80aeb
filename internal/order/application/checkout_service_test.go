package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cart "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/memory"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/order/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/lock"
)

type recordingPublisher struct {
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, event any) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

type failingDeleteRepo struct {
	cart.CartRepository
}

func (failingDeleteRepo) Delete(context.Context, string) error { return errors.New("connection reset") }

func seed(t *testing.T, repo cart.CartRepository, sessionID string) {
	t.Helper()
	store := cart.NewStore(catalog.DefaultCatalog())
	c, _, err := store.AddItem(cart.Cart{}, cart.AddItemInput{ProductID: 2, Quantity: 2, AddOnID: 3, AddOnQuantity: 1})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), sessionID, &c))
}

func newService(repo cart.CartRepository, pub domain.EventPublisher) *CheckoutService {
	svc := NewCheckoutService(repo, pub, lock.NewKeyedMutex(), pricing.DefaultPolicy(), nil, time.Second)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "ORD-test" }
	return svc
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository(0)
	seed(t, repo, "s1")
	pub := &recordingPublisher{}

	order, err := newService(repo, pub).Checkout(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, "ORD-test", order.ID)
	assert.Equal(t, "s1", order.SessionID)
	// 18.50*2 + 1.25 = 38.25; tax 3.83; shipping 5.00
	assert.Equal(t, "38.25", pricing.FormatMoney(order.Totals.Subtotal))
	assert.Equal(t, "3.83", pricing.FormatMoney(order.Totals.Tax))
	assert.Equal(t, "5.00", pricing.FormatMoney(order.Totals.Shipping))
	assert.Equal(t, "47.08", pricing.FormatMoney(order.Totals.GrandTotal))

	after, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, after.IsEmpty())

	require.Equal(t, []string{domain.TopicOrderPlaced}, pub.topics)
	ev, ok := pub.events[0].(domain.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, "47.08", ev.GrandTotal)
	assert.Equal(t, "s1", ev.SessionID)
}

func TestCheckoutEmptyCartIsRejected(t *testing.T) {
	pub := &recordingPublisher{}
	_, err := newService(memory.NewCartRepository(0), pub).Checkout(context.Background(), "s1")
	require.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.Empty(t, pub.topics)
}

func TestCheckoutKeepsCartWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewCartRepository(0)
	seed(t, inner, "s1")
	pub := &recordingPublisher{}

	_, err := newService(failingDeleteRepo{inner}, pub).Checkout(ctx, "s1")
	require.Error(t, err)
	assert.Empty(t, pub.topics)

	c, err := inner.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestCheckoutPublishFailureStillSucceeds(t *testing.T) {
	repo := memory.NewCartRepository(0)
	seed(t, repo, "s1")

	order, err := newService(repo, &recordingPublisher{err: errors.New("broker down")}).Checkout(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-test", order.ID)
}
