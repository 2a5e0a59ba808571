// Package metrics exposes Prometheus collectors for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Pavel2232/ShopBot/internal/strapi"
)

const namespace = "shopbot"

// BotMetrics counts handled conversation actions and content repository round trips.
type BotMetrics struct {
	actions      *prometheus.CounterVec
	repoRequests *prometheus.CounterVec
	repoDuration *prometheus.HistogramVec
}

// NewBotMetrics registers the bot metrics on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	if reg == nil {
		return &BotMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Conversation actions handled, by outcome.",
	}, []string{"action", "outcome"})
	repoRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repository_requests_total",
		Help:      "Content repository requests, by outcome.",
	}, []string{"method", "resource", "outcome"})
	repoDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "repository_request_duration_seconds",
		Help:      "Duration of content repository requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "resource"})
	reg.MustRegister(actions, repoRequests, repoDuration)
	return &BotMetrics{
		actions:      actions,
		repoRequests: repoRequests,
		repoDuration: repoDuration,
	}
}

// ObserveAction increments the action counter.
func (m *BotMetrics) ObserveAction(action, outcome string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// ObserveRequest records one repository round trip.
func (m *BotMetrics) ObserveRequest(method string, resource strapi.Resource, outcome string, elapsed time.Duration) {
	if m == nil || m.repoRequests == nil {
		return
	}
	res := normalizeLabel(string(resource))
	m.repoRequests.WithLabelValues(normalizeLabel(method), res, normalizeLabel(outcome)).Inc()
	m.repoDuration.WithLabelValues(normalizeLabel(method), res).Observe(elapsed.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

var _ strapi.Observer = (*BotMetrics)(nil)
