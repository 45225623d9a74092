package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/notifier"
)

type stubProcessor struct {
	seen   []notifier.Record
	failed map[string]bool
}

func (s *stubProcessor) HandleBatch(ctx context.Context, records []notifier.Record) []string {
	var out []string
	for _, r := range records {
		s.seen = append(s.seen, r)
		if s.failed[r.ID] {
			out = append(out, r.ID)
		}
	}
	return out
}

func TestLambdaHandler_PartialBatchResponse(t *testing.T) {
	p := &stubProcessor{failed: map[string]bool{"m2": true}}
	h := LambdaHandler(p)

	resp, err := h(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: "a"},
		{MessageId: "m2", Body: "b"},
		{MessageId: "m3", Body: "c"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m2"}}, resp.BatchItemFailures)
	assert.Len(t, p.seen, 3)
}

func TestLambdaHandler_NoFailures(t *testing.T) {
	resp, err := LambdaHandler(&stubProcessor{})(context.Background(), events.SQSEvent{})
	require.NoError(t, err)
	assert.NotNil(t, resp.BatchItemFailures)
	assert.Empty(t, resp.BatchItemFailures)
}

func TestSQSBatchHandler(t *testing.T) {
	p := &stubProcessor{failed: map[string]bool{"b": true}}
	failed := SQSBatchHandler(p)(context.Background(), []awspkg.SQSMessage{
		{MessageID: "a", Body: "1"}, {MessageID: "b", Body: "2"},
	})
	assert.Equal(t, []string{"b"}, failed)
	assert.Equal(t, "2", p.seen[1].Body)
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		return kafka.Message{}, context.Canceled
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error { return nil }

func TestKafkaConsumer_CommitsEveryRecord(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		{Topic: "order-events", Partition: 0, Offset: 1, Value: []byte("ok")},
		{Topic: "order-events", Partition: 0, Offset: 2, Value: []byte("bad")},
	}}
	p := &stubProcessor{failed: map[string]bool{"order-events/0/2": true}}
	c := &KafkaConsumer{reader: r, processor: p, logger: zap.NewNop()}

	err := c.Start(ctx)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Len(t, r.committed, 2)
	require.Len(t, p.seen, 2)
	assert.Equal(t, "order-events/0/1", p.seen[0].ID)
}
