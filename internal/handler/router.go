package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Pavel2232/ShopBot/internal/config"
	"github.com/Pavel2232/ShopBot/internal/handler/middleware"
	"github.com/Pavel2232/ShopBot/pkg/response"
)

// ReadinessCheck reports whether a backing store is reachable.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	gatherer prometheus.Gatherer,
	webhookHandler *WebhookHandler,
	checks ...ReadinessCheck,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readyz(logger, checks))

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Telegram pushes updates here only in webhook mode
	if webhookHandler != nil {
		tg := r.Group("/telegram")
		tg.Use(middleware.WebhookSecret(cfg.Bot.WebhookSecret))
		{
			tg.POST("/webhook", webhookHandler.Receive)
		}
	}

	return r
}

func readyz(logger *zap.Logger, checks []ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				logger.Warn("readiness check failed", zap.String("check", check.Name), zap.Error(err))
				response.ServiceUnavailable(c, check.Name+" unavailable")
				return
			}
		}
		response.Success(c, gin.H{"status": "ready"})
	}
}
