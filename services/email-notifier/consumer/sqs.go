package consumer

import (
	"context"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/notifier"
)

// SQSBatchHandler adapts the processor to the long-poll consumer. Messages it
// reports as failed stay on the queue until their visibility timeout lapses.
func SQSBatchHandler(p BatchProcessor) awspkg.BatchHandler {
	return func(ctx context.Context, msgs []awspkg.SQSMessage) []string {
		records := make([]notifier.Record, 0, len(msgs))
		for _, m := range msgs {
			records = append(records, notifier.Record{ID: m.MessageID, Body: m.Body})
		}
		return p.HandleBatch(ctx, records)
	}
}
