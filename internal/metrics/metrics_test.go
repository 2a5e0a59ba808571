package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pavel2232/ShopBot/internal/strapi"
)

func TestBotMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveAction("add_to_cart", "ok")
	m.ObserveAction("add_to_cart", "ok")
	m.ObserveAction("", "unavailable")
	m.ObserveRequest("GET", strapi.ResourceCarts, "ok", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("add_to_cart", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("unknown", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repoRequests.WithLabelValues("GET", "carts", "ok")))

	expected := `
# HELP shopbot_repository_requests_total Content repository requests, by outcome.
# TYPE shopbot_repository_requests_total counter
shopbot_repository_requests_total{method="GET",outcome="ok",resource="carts"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "shopbot_repository_requests_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.repoDuration))
}

func TestBotMetrics_NilRegisterer(t *testing.T) {
	m := NewBotMetrics(nil)
	assert.NotPanics(t, func() {
		m.ObserveAction("start", "ok")
		m.ObserveRequest("GET", strapi.ResourceProducts, "ok", time.Second)
	})

	var nilMetrics *BotMetrics
	assert.NotPanics(t, func() { nilMetrics.ObserveAction("start", "ok") })
}
