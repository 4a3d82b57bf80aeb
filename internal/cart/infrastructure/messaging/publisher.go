// Package messaging 领域事件发布：Kafka 或仅写日志
package messaging

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// HeaderEventType 消息头中的事件类型
const HeaderEventType = "event_type"

type producer interface {
	Topic() string
	SendMessage(ctx context.Context, topic, key string, value any, headers map[string]string) error
}

type kafkaPublisher struct {
	producer producer
}

// NewKafkaPublisher 所有事件写入生产者的默认主题，以会话 ID 为 key 保证同一会话有序，
// 事件类型放在消息头 event_type 中
func NewKafkaPublisher(p producer) domain.EventPublisher {
	return &kafkaPublisher{producer: p}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	return p.producer.SendMessage(ctx, p.producer.Topic(), key, event, map[string]string{
		HeaderEventType: eventType,
	})
}

type logPublisher struct{}

// NewLogPublisher 未启用 Kafka 时使用，事件只写入日志
func NewLogPublisher() domain.EventPublisher {
	return logPublisher{}
}

func (logPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	logger.Info(ctx, "domain event", "event_type", eventType, "key", key, "event", event)
	return nil
}
