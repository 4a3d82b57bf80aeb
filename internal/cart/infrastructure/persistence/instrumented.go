// Package persistence 会话存储的公共装饰器
package persistence

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

type instrumented struct {
	next      domain.CartRepository
	store     string
	collector metrics.MetricsCollector
}

// Instrument 为存储记录每次操作的耗时，store 为指标中的存储名称
func Instrument(next domain.CartRepository, store string, collector metrics.MetricsCollector) domain.CartRepository {
	if collector == nil {
		return next
	}
	return &instrumented{next: next, store: store, collector: collector}
}

func (r *instrumented) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	defer r.observe("get", time.Now())
	return r.next.Get(ctx, sessionID)
}

func (r *instrumented) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	defer r.observe("save", time.Now())
	return r.next.Save(ctx, sessionID, cart)
}

func (r *instrumented) Delete(ctx context.Context, sessionID string) error {
	defer r.observe("delete", time.Now())
	return r.next.Delete(ctx, sessionID)
}

func (r *instrumented) observe(op string, start time.Time) {
	r.collector.RecordStoreOp(r.store, op, time.Since(start).Seconds())
}
