package utils

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/shopping-backend/services/common/logger"
	"github.com/yashrajoria/shopping-backend/services/common/middleware"
)

var hopByHop = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// Forwarder relays requests to an upstream service unchanged apart from
// hop-by-hop headers and the propagated request id.
type Forwarder struct {
	client *http.Client
	logger *zap.Logger
}

func NewForwarder(timeout time.Duration, log *zap.Logger) *Forwarder {
	return &Forwarder{
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

// To returns a handler forwarding the full request path to targetBase.
func (f *Forwarder) To(targetBase string) gin.HandlerFunc {
	base := strings.TrimRight(targetBase, "/")
	return func(c *gin.Context) {
		f.forward(c, base)
	}
}

func (f *Forwarder) forward(c *gin.Context, base string) {
	log := logger.ForRequest(f.logger, c)

	targetURL := base + c.Request.URL.EscapedPath()
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		log.Error("Failed to create forward request", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "failed to create request"})
		return
	}
	req.ContentLength = c.Request.ContentLength

	for k, v := range c.Request.Header {
		if !hopByHop[strings.ToLower(k)] {
			req.Header[k] = v
		}
	}
	if id := c.GetString(logger.RequestIDKey); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	req.Header.Set("X-Forwarded-For", c.ClientIP())
	req.Header.Set("X-Forwarded-Host", c.Request.Host)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("Upstream unreachable", zap.String("url", targetURL), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"detail": "service unreachable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		lk := strings.ToLower(k)
		// CORS is answered by the gateway itself.
		if hopByHop[lk] || strings.HasPrefix(lk, "access-control-") {
			continue
		}
		c.Writer.Header()[k] = v
	}
	c.Status(resp.StatusCode)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Warn("Failed to copy upstream response", zap.Error(err))
	}
}
