package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type cloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsClient wraps CloudWatch PutMetricData. A nil or disabled client drops
// every data point, so callers never need to guard their calls.
type MetricsClient struct {
	client    cloudWatchAPI
	namespace string
	enabled   bool
}

func NewMetricsClient(cfg aws.Config, namespace string, enabled bool) *MetricsClient {
	if namespace == "" {
		namespace = "Shopping"
	}
	return &MetricsClient{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
		enabled:   enabled,
	}
}

// MetricPoint is one data point for PutMetrics.
type MetricPoint struct {
	Name  string
	Value float64
	Unit  types.StandardUnit
}

// PutMetric sends a single data point.
func (m *MetricsClient) PutMetric(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	return m.PutMetrics(ctx, dimensions, MetricPoint{Name: metricName, Value: value, Unit: unit})
}

// PutMetrics sends every point in one request, all sharing dimensions.
func (m *MetricsClient) PutMetrics(ctx context.Context, dimensions map[string]string, points ...MetricPoint) error {
	if !m.IsEnabled() || len(points) == 0 {
		return nil
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{Name: aws.String(k), Value: aws.String(v)})
	}
	now := time.Now()
	data := make([]types.MetricDatum, 0, len(points))
	for _, p := range points {
		data = append(data, types.MetricDatum{
			MetricName: aws.String(p.Name),
			Value:      aws.Float64(p.Value),
			Unit:       p.Unit,
			Timestamp:  aws.Time(now),
			Dimensions: dims,
		})
	}

	if _, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}); err != nil {
		return fmt.Errorf("failed to put %d metrics: %w", len(data), err)
	}
	return nil
}

// RecordCount increments a counter metric
func (m *MetricsClient) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}

// RecordLatency records a duration in milliseconds
func (m *MetricsClient) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

func (m *MetricsClient) IsEnabled() bool {
	return m != nil && m.enabled
}

const (
	// HTTP
	MetricHTTPRequests = "HTTPRequests"
	MetricHTTPLatency  = "HTTPLatency"
	MetricHTTP4xx      = "HTTP4xxErrors"
	MetricHTTP5xx      = "HTTP5xxErrors"

	// Orders
	MetricOrdersCreated               = "OrdersCreated"
	MetricOrderNotificationsPublished = "OrderNotificationsPublished"
	MetricOrderNotificationsFailed    = "OrderNotificationsFailed"

	// Email notifier
	MetricEmailsSent   = "EmailsSent"
	MetricEmailsFailed = "EmailsFailed"
)
