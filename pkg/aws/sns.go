package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// MessageAttribute is a typed SNS message attribute. DataType is "String" or "Number".
type MessageAttribute struct {
	DataType string
	Value    string
}

// SNSMessage is a single publish request.
type SNSMessage struct {
	TopicArn   string
	Subject    string
	Body       []byte
	Attributes map[string]MessageAttribute
}

// SNSPublisher is a minimal interface for publishing messages to SNS.
type SNSPublisher interface {
	Publish(ctx context.Context, msg SNSMessage) (string, error)
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client snsAPI
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

// Publish publishes the message once and returns the SNS message id.
func (s *SNSClient) Publish(ctx context.Context, msg SNSMessage) (string, error) {
	if msg.TopicArn == "" {
		return "", fmt.Errorf("empty topicArn")
	}

	input := &sns.PublishInput{
		TopicArn: sdkaws.String(msg.TopicArn),
		Message:  sdkaws.String(string(msg.Body)),
	}
	if msg.Subject != "" {
		input.Subject = sdkaws.String(msg.Subject)
	}
	if len(msg.Attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for name, attr := range msg.Attributes {
			input.MessageAttributes[name] = types.MessageAttributeValue{
				DataType:    sdkaws.String(attr.DataType),
				StringValue: sdkaws.String(attr.Value),
			}
		}
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sns publish failed for topic %s: %w", msg.TopicArn, err)
	}
	return sdkaws.ToString(out.MessageId), nil
}
