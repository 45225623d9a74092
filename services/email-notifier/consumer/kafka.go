package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/notifier"
)

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads order events from a topic as part of a consumer group.
// Offsets are committed after each record whether or not its email went out, so
// a poison record cannot stall the partition; failures are logged and counted.
type KafkaConsumer struct {
	reader    kafkaReader
	processor BatchProcessor
	logger    *zap.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, p BatchProcessor, logger *zap.Logger) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	logger.Info("Kafka consumer initialized",
		zap.String("topic", topic), zap.String("group", groupID), zap.Strings("brokers", brokers))
	return &KafkaConsumer{reader: r, processor: p, logger: logger}
}

func (c *KafkaConsumer) Start(ctx context.Context) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Kafka fetch error", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		id := fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset)
		if failed := c.processor.HandleBatch(ctx, []notifier.Record{{ID: id, Body: string(m.Value)}}); len(failed) > 0 {
			c.logger.Warn("Order event not delivered", zap.String("record", id))
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("Kafka commit failed", zap.String("record", id), zap.Error(err))
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
