package consumer

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/notifier"
)

// BatchProcessor is satisfied by notifier.Processor.
type BatchProcessor interface {
	HandleBatch(ctx context.Context, records []notifier.Record) []string
}

// LambdaHandler adapts the processor to an SQS-triggered Lambda with partial
// batch responses: only the failed message ids are retried.
func LambdaHandler(p BatchProcessor) func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	return func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		records := make([]notifier.Record, 0, len(event.Records))
		for _, r := range event.Records {
			records = append(records, notifier.Record{ID: r.MessageId, Body: r.Body})
		}

		resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
		for _, id := range p.HandleBatch(ctx, records) {
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: id})
		}
		return resp, nil
	}
}
