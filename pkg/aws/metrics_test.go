package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestMetricsClient_DisabledDropsPoints(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := &MetricsClient{client: fake, namespace: "Shopping"}
	require.NoError(t, m.RecordCount(context.Background(), MetricOrdersCreated, nil))
	assert.Empty(t, fake.inputs)

	var nilClient *MetricsClient
	assert.NoError(t, nilClient.RecordCount(context.Background(), MetricOrdersCreated, nil))
}

func TestMetricsClient_PutMetricsBatches(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := &MetricsClient{client: fake, namespace: "Shopping", enabled: true}

	err := m.PutMetrics(context.Background(), map[string]string{"Service": "order-service"},
		MetricPoint{Name: MetricHTTPRequests, Value: 1, Unit: types.StandardUnitCount},
		MetricPoint{Name: MetricHTTPLatency, Value: 12, Unit: types.StandardUnitMilliseconds},
	)
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "Shopping", *in.Namespace)
	require.Len(t, in.MetricData, 2)
	assert.Equal(t, MetricHTTPLatency, *in.MetricData[1].MetricName)
	require.Len(t, in.MetricData[0].Dimensions, 1)
	assert.Equal(t, "order-service", *in.MetricData[0].Dimensions[0].Value)
}

func TestMetricsClient_WrapsError(t *testing.T) {
	m := &MetricsClient{client: &fakeCloudWatch{err: errors.New("throttled")}, enabled: true}
	assert.Error(t, m.RecordLatency(context.Background(), MetricHTTPLatency, 0, nil))
}
