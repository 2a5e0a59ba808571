package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pavel2232/ShopBot/internal/config"
	"github.com/Pavel2232/ShopBot/internal/handler/middleware"
	"github.com/Pavel2232/ShopBot/internal/metrics"
)

func newTestRouter(t *testing.T, proc UpdateProcessor, checks ...ReadinessCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Bot.WebhookSecret = "s3cret"

	reg := prometheus.NewRegistry()
	metrics.NewBotMetrics(reg).ObserveAction("start", "ok")

	var wh *WebhookHandler
	if proc != nil {
		wh = NewWebhookHandler(proc, zap.NewNop())
	}
	return SetupRouter(cfg, zap.NewNop(), reg, wh, checks...)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, nil)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_Readiness(t *testing.T) {
	ok := ReadinessCheck{Name: "redis", Check: func(context.Context) error { return nil }}
	down := ReadinessCheck{Name: "postgres", Check: func(context.Context) error { return errors.New("refused") }}

	w := serve(newTestRouter(t, nil, ok), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(newTestRouter(t, nil, ok, down), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "postgres unavailable")
}

func TestRouter_Metrics(t *testing.T) {
	w := serve(newTestRouter(t, nil), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `shopbot_actions_total{action="start",outcome="ok"} 1`)
}

func TestRouter_WebhookOnlyInWebhookMode(t *testing.T) {
	w := serve(newTestRouter(t, nil), httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Webhook(t *testing.T) {
	proc := &fakeProcessor{}
	r := newTestRouter(t, proc)
	body := `{"update_id":10,"message":{"message_id":1,"date":1700000000,"text":"/start","from":{"id":77,"first_name":"A"},"chat":{"id":77,"type":"private"}}}`

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	w := serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set(middleware.HeaderTelegramSecret, "wrong")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, proc.updates)

	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(`{"update_id":`))
	req.Header.Set(middleware.HeaderTelegramSecret, "s3cret")
	w = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set(middleware.HeaderTelegramSecret, "s3cret")
	req.Header.Set("Content-Type", "application/json")
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, proc.updates, 1)
	assert.Equal(t, 10, proc.updates[0].ID)
	require.NotNil(t, proc.updates[0].Message)
	assert.Equal(t, "/start", proc.updates[0].Message.Text)
	assert.Equal(t, int64(77), proc.updates[0].Message.Sender.ID)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"message":"internal server error"}`, w.Body.String())
}
