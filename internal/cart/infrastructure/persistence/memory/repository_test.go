package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

func sampleCart() *domain.Cart {
	return &domain.Cart{Items: []domain.LineItem{{
		Key:              "k1",
		ProductID:        1,
		ProductUnitPrice: decimal.RequireFromString("25.00"),
		ProductQuantity:  2,
		LineTotal:        decimal.RequireFromString("50.00"),
	}}}
}

func TestGetMissingSessionReturnsEmptyCart(t *testing.T) {
	repo := NewCartRepository(0)
	cart, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items)
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(0)

	require.NoError(t, repo.Save(ctx, "s1", sampleCart()))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "k1", got.Items[0].Key)

	other, err := repo.Get(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty(), "sessions are isolated")

	require.NoError(t, repo.Delete(ctx, "s1"))
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	assert.NoError(t, repo.Delete(ctx, "s1"), "deleting twice is fine")
}

func TestStoredCartIsCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(0)

	cart := sampleCart()
	require.NoError(t, repo.Save(ctx, "s1", cart))
	cart.Items[0].Key = "mutated"

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "k1", got.Items[0].Key)

	got.Items[0].Key = "mutated again"
	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "k1", again.Items[0].Key)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := newCartRepository(time.Minute, func() time.Time { return now })

	require.NoError(t, repo.Save(ctx, "s1", sampleCart()))

	now = now.Add(30 * time.Second)
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	now = now.Add(time.Minute)
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	require.NoError(t, repo.Save(ctx, "s2", sampleCart()))
	repo.mu.RLock()
	_, stillThere := repo.carts["s1"]
	repo.mu.RUnlock()
	assert.False(t, stillThere, "expired sessions are evicted on write")
}

func TestEvictionIsAmortized(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	repo := newCartRepository(10*time.Second, func() time.Time { return now })
	stored := func(id string) bool {
		repo.mu.RLock()
		defer repo.mu.RUnlock()
		_, ok := repo.carts[id]
		return ok
	}

	require.NoError(t, repo.Save(ctx, "s1", sampleCart()))

	now = start.Add(10 * time.Second)
	require.NoError(t, repo.Save(ctx, "s2", sampleCart()))
	assert.True(t, stored("s1"), "s1 expires only after its deadline")

	now = start.Add(15 * time.Second)
	require.NoError(t, repo.Save(ctx, "s3", sampleCart()))
	assert.True(t, stored("s1"), "no sweep within the interval")

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty(), "unswept entries still read as expired")

	now = start.Add(20 * time.Second)
	require.NoError(t, repo.Save(ctx, "s4", sampleCart()))
	assert.False(t, stored("s1"), "swept once the interval elapsed")
	assert.True(t, stored("s2"))
	assert.True(t, stored("s3"))
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 10*time.Second, newCartRepository(10*time.Second, time.Now).sweepInterval())
	assert.Equal(t, maxSweepInterval, newCartRepository(time.Hour, time.Now).sweepInterval())
}
