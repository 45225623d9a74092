package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/shopping-backend/services/common/middleware"
)

func newEngine(fwd *Forwarder, base string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	h := fwd.To(base)
	r.Any("/orders", h)
	r.Any("/orders/*any", h)
	return r
}

func TestForward_RelaysRequestAndResponse(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotRID, gotMethod string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotRID = r.Header.Get(middleware.RequestIDHeader)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_id":1}`))
	}))
	defer upstream.Close()

	r := newEngine(NewForwarder(time.Second, zap.NewNop()), upstream.URL+"/")

	req := httptest.NewRequest(http.MethodPost, "/orders?dry=1", strings.NewReader(`{"user_id":7}`))
	req.Header.Set(middleware.RequestIDHeader, "rid-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"order_id":1}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, "dry=1", gotQuery)
	assert.Equal(t, `{"user_id":7}`, gotBody)
	assert.Equal(t, "rid-123", gotRID)
}

func TestForward_NestedPath(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	r := newEngine(NewForwarder(time.Second, zap.NewNop()), upstream.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/orders/12", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/orders/12", gotPath)
}

func TestForward_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	base := upstream.URL
	upstream.Close()

	r := newEngine(NewForwarder(time.Second, zap.NewNop()), base)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"detail":"service unreachable"}`, w.Body.String())
}
