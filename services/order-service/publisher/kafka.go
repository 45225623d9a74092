package publisher

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events keyed by order id, so events for one order
// land on one partition. Routing attributes travel as record headers.
type KafkaPublisher struct {
	writer kafkaWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1,
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

func (p *KafkaPublisher) Name() string { return "kafka:" + p.topic }

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error {
	body, err := encode(evt)
	if err != nil {
		return err
	}

	attrs := routingAttributes(evt)
	headers := make([]kafka.Header, 0, len(attrs))
	for _, k := range []string{"event_type", "order_id", "status"} {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(attrs[k])})
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.FormatUint(uint64(evt.OrderID), 10)),
		Value:   body,
		Headers: headers,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
