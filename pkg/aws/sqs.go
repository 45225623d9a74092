package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

const pollErrorBackoff = 5 * time.Second

// SQSMessage is the part of a received SQS message a batch handler needs.
type SQSMessage struct {
	MessageID     string
	ReceiptHandle string
	Body          string
}

// BatchHandler processes one received batch and returns the ids of the messages
// that failed. Failed messages are left on the queue for redelivery.
type BatchHandler func(ctx context.Context, msgs []SQSMessage) []string

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
}

// SQSConsumer long-polls a queue and hands each batch to a BatchHandler.
type SQSConsumer struct {
	client   sqsAPI
	queueURL string
	logger   *zap.Logger
}

func NewSQSConsumer(cfg sdkaws.Config, queueURL string, logger *zap.Logger) *SQSConsumer {
	return &SQSConsumer{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
		logger:   logger,
	}
}

// StartPolling runs until ctx is cancelled.
func (c *SQSConsumer) StartPolling(ctx context.Context, handler BatchHandler) error {
	c.logger.Info("Starting SQS polling", zap.String("queue", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("SQS polling stopped")
			return ctx.Err()
		default:
			if err := c.pollOnce(ctx, handler); err != nil && ctx.Err() == nil {
				c.logger.Error("Error polling SQS", zap.Error(err))
				select {
				case <-ctx.Done():
				case <-time.After(pollErrorBackoff):
				}
			}
		}
	}
}

func (c *SQSConsumer) pollOnce(ctx context.Context, handler BatchHandler) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &c.queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}
	if len(result.Messages) == 0 {
		return nil
	}

	msgs := make([]SQSMessage, 0, len(result.Messages))
	for _, m := range result.Messages {
		msgs = append(msgs, SQSMessage{
			MessageID:     sdkaws.ToString(m.MessageId),
			ReceiptHandle: sdkaws.ToString(m.ReceiptHandle),
			Body:          sdkaws.ToString(m.Body),
		})
	}

	failed := make(map[string]struct{})
	for _, id := range handler(ctx, msgs) {
		failed[id] = struct{}{}
	}

	var entries []types.DeleteMessageBatchRequestEntry
	for i, m := range msgs {
		if _, ok := failed[m.MessageID]; ok {
			continue
		}
		entries = append(entries, types.DeleteMessageBatchRequestEntry{
			Id:            sdkaws.String(strconv.Itoa(i)),
			ReceiptHandle: sdkaws.String(m.ReceiptHandle),
		})
	}
	if len(entries) == 0 {
		return nil
	}

	out, err := c.client.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
		QueueUrl: &c.queueURL,
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	for _, f := range out.Failed {
		c.logger.Warn("Failed to delete message",
			zap.String("entry", sdkaws.ToString(f.Id)),
			zap.String("reason", sdkaws.ToString(f.Message)))
	}
	return nil
}
