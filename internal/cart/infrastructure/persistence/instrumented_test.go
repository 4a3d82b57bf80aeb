package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/memory"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

type recordingCollector struct {
	metrics.NopCollector
	ops []string
}

func (c *recordingCollector) RecordStoreOp(store, op string, _ float64) {
	c.ops = append(c.ops, store+"."+op)
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	rec := &recordingCollector{}
	repo := Instrument(memory.NewCartRepository(0), "memory", rec)

	require.NoError(t, repo.Save(ctx, "s1", &domain.Cart{}))
	_, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "s1"))

	assert.Equal(t, []string{"memory.save", "memory.get", "memory.delete"}, rec.ops)
}

func TestInstrumentNilCollector(t *testing.T) {
	inner := memory.NewCartRepository(0)
	assert.Equal(t, inner, Instrument(inner, "memory", nil))
}
