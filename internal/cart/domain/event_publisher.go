package domain

import "context"

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
