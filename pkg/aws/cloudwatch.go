package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const (
	defaultLogGroup   = "/shopping/services"
	logRetentionDays  = 30
	logBatchSize      = 100
	logFlushInterval  = 5 * time.Second
	logRequestTimeout = 10 * time.Second
)

type cloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// LogSink is a zap WriteSyncer that batches log lines into one CloudWatch Logs
// stream per process. Lines are shipped every logBatchSize lines, every
// logFlushInterval, and on Sync.
type LogSink struct {
	api    cloudWatchLogsAPI
	group  string
	stream string

	mu      sync.Mutex
	pending []types.InputLogEvent
	now     func() time.Time
}

// NewCloudWatchLogSink prepares the log group and a fresh stream named after
// the service, then starts the periodic flusher. The flusher stops when ctx is
// done.
func NewCloudWatchLogSink(ctx context.Context, cfg sdkaws.Config, serviceName, group string) (*LogSink, error) {
	sink, err := newLogSink(ctx, cloudwatchlogs.NewFromConfig(cfg), serviceName, group)
	if err != nil {
		return nil, err
	}
	go sink.run(ctx)
	return sink, nil
}

func newLogSink(ctx context.Context, api cloudWatchLogsAPI, serviceName, group string) (*LogSink, error) {
	if group == "" {
		group = defaultLogGroup
	}
	s := &LogSink{
		api:    api,
		group:  group,
		stream: fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
		now:    time.Now,
	}

	_, err := api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: &s.group})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return nil, fmt.Errorf("failed to create log group %s: %w", s.group, err)
	}
	if _, err := api.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    &s.group,
		RetentionInDays: sdkaws.Int32(logRetentionDays),
	}); err != nil {
		return nil, fmt.Errorf("failed to set retention on %s: %w", s.group, err)
	}
	if _, err := api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  &s.group,
		LogStreamName: &s.stream,
	}); err != nil {
		return nil, fmt.Errorf("failed to create log stream %s: %w", s.stream, err)
	}
	return s, nil
}

func (s *LogSink) run(ctx context.Context) {
	ticker := time.NewTicker(logFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = s.Sync()
			return
		case <-ticker.C:
			if err := s.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "cloudwatch logs flush: %v\n", err)
			}
		}
	}
}

// Write queues one line. It never fails; shipping errors surface from Sync.
func (s *LogSink) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg == "" {
		return len(p), nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, types.InputLogEvent{
		Message:   sdkaws.String(msg),
		Timestamp: sdkaws.Int64(s.now().UnixMilli()),
	})
	full := len(s.pending) >= logBatchSize
	s.mu.Unlock()

	if full {
		if err := s.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "cloudwatch logs flush: %v\n", err)
		}
	}
	return len(p), nil
}

// Sync ships every queued line. Lines from a failed batch are dropped.
func (s *LogSink) Sync() error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), logRequestTimeout)
	defer cancel()
	_, err := s.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  &s.group,
		LogStreamName: &s.stream,
		LogEvents:     batch,
	})
	if err != nil {
		return fmt.Errorf("failed to put %d log events: %w", len(batch), err)
	}
	return nil
}
