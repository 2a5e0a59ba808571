package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/Pavel2232/ShopBot/internal/config"
	"github.com/Pavel2232/ShopBot/internal/handler"
	"github.com/Pavel2232/ShopBot/internal/metrics"
	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/repository"
	"github.com/Pavel2232/ShopBot/internal/service"
	"github.com/Pavel2232/ShopBot/internal/shop"
	"github.com/Pavel2232/ShopBot/internal/strapi"
)

const defaultConfigPath = "config.yaml"

func main() {
	// 1. Load .env and configuration
	envErr := godotenv.Load()

	path := os.Getenv("SHOPBOT_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	if envErr != nil {
		logger.Warn("no .env file loaded", zap.Error(envErr))
	}

	// 3. Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	botMetrics := metrics.NewBotMetrics(reg)

	var readiness []handler.ReadinessCheck

	// 4. Initialize session store (Redis or in-memory)
	var sessions repository.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		sessions = repository.NewRedisSessionStore(redisClient, cfg.Session.TTL)
		readiness = append(readiness, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
		logger.Info("using Redis session store")
	case "memory":
		sessions = repository.NewMemorySessionStore(cfg.Session.TTL)
		logger.Info("using in-memory session store")
	}

	// 5. Initialize order ledger (PostgreSQL or in-memory)
	var orders repository.OrderRepository
	if cfg.Database.Postgres.Enabled {
		db, err := config.NewPostgresDB(cfg.Database.Postgres)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		if cfg.Database.Postgres.AutoMigrate {
			if err := model.AutoMigrate(db); err != nil {
				logger.Fatal("failed to auto-migrate", zap.Error(err))
			}
			logger.Info("database migration completed")
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("failed to get sql db", zap.Error(err))
		}
		defer sqlDB.Close()
		readiness = append(readiness, handler.ReadinessCheck{Name: "postgres", Check: sqlDB.PingContext})
		orders = repository.NewPGOrderRepository(db)
	} else {
		orders = repository.NewMemoryOrderRepository()
		logger.Warn("postgres disabled, orders are kept in memory")
	}

	// 6. Content repository client
	strapiClient, err := strapi.New(strapi.Config{
		BaseURL:           cfg.Strapi.BaseURL,
		Token:             cfg.Strapi.Token,
		Timeout:           cfg.Strapi.Timeout,
		SharedConnections: cfg.Strapi.SharedConnections,
	}, strapi.WithObserver(botMetrics))
	if err != nil {
		logger.Fatal("failed to init strapi client", zap.Error(err))
	}

	// 7. Initialize services
	mailer, err := service.NewMailSender(cfg.SMTP)
	if err != nil {
		logger.Fatal("failed to init mail sender", zap.Error(err))
	}
	cartService := service.NewCartService(strapiClient, service.QuantityPolicy(cfg.Shop.QuantityPolicy), logger)
	checkoutService := service.NewCheckoutService(cartService, orders, mailer, logger)

	machine := shop.NewMachine(
		strapiClient, cartService, checkoutService, sessions,
		cfg.Shop.PageSize, logger,
		shop.WithRecorder(botMetrics),
	)

	// 8. Initialize Telegram bot
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Bot.PollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("telegram handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("failed to init telegram bot", zap.Error(err))
	}
	handler.NewBotHandler(ctx, machine, logger).Register(bot)
	if err := bot.SetCommands(handler.Commands); err != nil {
		logger.Warn("failed to publish bot commands", zap.Error(err))
	}

	var webhookHandler *handler.WebhookHandler
	switch cfg.Bot.Mode {
	case "webhook":
		if err := bot.SetWebhook(&tele.Webhook{
			SecretToken: cfg.Bot.WebhookSecret,
			Endpoint:    &tele.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}); err != nil {
			logger.Fatal("failed to register webhook", zap.Error(err))
		}
		webhookHandler = handler.NewWebhookHandler(bot, logger)
		logger.Info("receiving updates via webhook", zap.String("url", cfg.Bot.WebhookURL))
	case "polling":
		if err := bot.RemoveWebhook(); err != nil {
			logger.Warn("failed to remove webhook", zap.Error(err))
		}
		go bot.Start()
		logger.Info("receiving updates via long polling")
	}

	// 9. Setup router
	router := handler.SetupRouter(cfg, logger, reg, webhookHandler, readiness...)

	// 10. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 11. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 12. Wait for interrupt signal
	<-ctx.Done()
	logger.Info("shutting down...")

	if cfg.Bot.Mode == "polling" {
		bot.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
