// Package mq Kafka 生产者：JSON 消息体，按 key 分区，事件类型等元数据放在消息头
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer Kafka 生产者
type KafkaProducer struct {
	writer messageWriter
	config config.KafkaConfig
}

// NewProducer 创建生产者，连接在第一次写入时建立
func NewProducer(cfg config.KafkaConfig) *KafkaProducer {
	backoff := time.Duration(cfg.RetryBackoff) * time.Millisecond
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		// 同一会话的事件进入同一分区，保持顺序
		Balancer:        &kafka.Hash{},
		Compression:     kafka.Gzip,
		RequiredAcks:    kafka.RequireAll,
		MaxAttempts:     cfg.MaxRetries,
		WriteBackoffMin: backoff,
		WriteBackoffMax: 10 * backoff,
	}

	logger.Info(context.Background(), "Kafka producer ready", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return &KafkaProducer{writer: writer, config: cfg}
}

// Topic 默认主题
func (kp *KafkaProducer) Topic() string {
	return kp.config.Topic
}

// SendMessage 同步写入一条消息，返回时 broker 已确认
func (kp *KafkaProducer) SendMessage(ctx context.Context, topic, key string, value any, headers map[string]string) error {
	msg, err := newMessage(topic, key, value, headers)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Kafka write failed", "topic", topic, "key", key, "error", err)
		return fmt.Errorf("kafka write %s: %w", topic, err)
	}
	logger.Debug(ctx, "Kafka message written", "topic", topic, "key", key, "duration", time.Since(start))
	return nil
}

// Close 刷出缓冲并关闭
func (kp *KafkaProducer) Close() error {
	return kp.writer.Close()
}

// newMessage 编码消息体；消息头按 key 排序，便于对比与重放
func newMessage(topic, key string, value any, headers map[string]string) (kafka.Message, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode kafka message: %w", err)
	}

	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	for _, k := range names {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(headers[k])})
	}
	return msg, nil
}
