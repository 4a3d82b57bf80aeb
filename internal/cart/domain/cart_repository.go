package domain

import "context"

// CartRepository 会话购物车存储；Get 在会话没有购物车时返回空购物车，
// Save 整体覆盖（后写入者生效）
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
