package publisher

import (
	"context"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
)

// SNSPublisher publishes order events to an SNS topic, once, without retry.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Name() string { return "sns" }

func (p *SNSPublisher) PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error {
	body, err := encode(evt)
	if err != nil {
		return err
	}

	attrs := make(map[string]awspkg.MessageAttribute, 3)
	for name, value := range routingAttributes(evt) {
		dataType := "String"
		if name == "order_id" {
			dataType = "Number"
		}
		attrs[name] = awspkg.MessageAttribute{DataType: dataType, Value: value}
	}

	_, err = p.client.Publish(ctx, awspkg.SNSMessage{
		TopicArn:   p.topicArn,
		Subject:    evt.Subject(),
		Body:       body,
		Attributes: attrs,
	})
	return err
}
