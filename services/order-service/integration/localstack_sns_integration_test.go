package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
	"github.com/yashrajoria/shopping-backend/services/order-service/publisher"
)

// Runs only with RUN_LOCALSTACK_INTEGRATION=true against AWS_ENDPOINT (LocalStack).
func TestSNSPublish_LocalStack(t *testing.T) {
	if os.Getenv("RUN_LOCALSTACK_INTEGRATION") != "true" {
		t.Skip("skipping localstack integration test; set RUN_LOCALSTACK_INTEGRATION=true to run")
	}
	topic := os.Getenv("SNS_TOPIC_ARN")
	require.NotEmpty(t, topic, "SNS_TOPIC_ARN must be set for integration test")

	cfg, err := awspkg.LoadAWSConfig(context.Background())
	require.NoError(t, err)

	pub := publisher.NewSNSPublisher(awspkg.NewSNSClient(cfg), topic)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = pub.PublishOrderEvent(ctx, models.OrderEvent{
		OrderID:    1,
		UserID:     7,
		UserEmail:  "a@b.com",
		Status:     models.StatusPending,
		OrderTotal: "19.98",
		Items:      []models.EventItem{{ProductID: 1, Quantity: 2, PriceAtOrder: "9.99"}},
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		EventType:  "order.pending",
	})
	require.NoError(t, err)
}
