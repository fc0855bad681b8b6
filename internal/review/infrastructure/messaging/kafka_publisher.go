// Package messaging 提供审核事件的 Kafka 发布实现。
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/merchantrisk/internal/review/domain"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
)

// Config Kafka 发布者配置
type Config struct {
	Brokers      []string
	Topic        string
	MaxRetries   int
	RetryBackoff int
}

// KafkaEventPublisher domain.EventPublisher 的 Kafka 实现
type KafkaEventPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(cfg Config) *KafkaEventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "Kafka review event publisher created", "brokers", cfg.Brokers, "topic", cfg.Topic)

	return &KafkaEventPublisher{writer: writer, topic: cfg.Topic}
}

// PublishReviewSubmitted 发布审核提交事件，以商户名为分区键
func (p *KafkaEventPublisher) PublishReviewSubmitted(ctx context.Context, event domain.ReviewSubmittedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.MerchantDescription),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to publish review event",
			"topic", p.topic,
			"merchant", event.MerchantDescription,
			"error", err,
		)
		return err
	}

	logger.Debug(ctx, "Review event published", "topic", p.topic, "merchant", event.MerchantDescription)
	return nil
}

// Close 关闭底层 writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
