package middleware

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/gin-gonic/gin"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"
)

// MetricsMiddleware records one batch of request metrics per request, keyed
// by route template. The batch is sent off the request path.
func MetricsMiddleware(metricsClient *awspkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !metricsClient.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		statusCode := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		dimensions := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Route":   route,
			"Status":  statusCodeToRange(statusCode),
		}

		points := []awspkg.MetricPoint{
			{Name: awspkg.MetricHTTPRequests, Value: 1, Unit: types.StandardUnitCount},
			{Name: awspkg.MetricHTTPLatency, Value: float64(duration.Milliseconds()), Unit: types.StandardUnitMilliseconds},
		}
		switch {
		case statusCode >= 500:
			points = append(points, awspkg.MetricPoint{Name: awspkg.MetricHTTP5xx, Value: 1, Unit: types.StandardUnitCount})
		case statusCode >= 400:
			points = append(points, awspkg.MetricPoint{Name: awspkg.MetricHTTP4xx, Value: 1, Unit: types.StandardUnitCount})
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsClient.PutMetrics(ctx, dimensions, points...)
		}()
	}
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
