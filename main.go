package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/KILATIV100/perks-ua-bot-sub000/config"
	"github.com/KILATIV100/perks-ua-bot-sub000/database"
	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
	"github.com/KILATIV100/perks-ua-bot-sub000/middleware"
	"github.com/KILATIV100/perks-ua-bot-sub000/notify"
	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
	"github.com/KILATIV100/perks-ua-bot-sub000/routes"
	"github.com/KILATIV100/perks-ua-bot-sub000/scheduler"
)

func main() {
	// Load .env if present (do not overwrite already-set environment variables).
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is required")
	}
	if cfg.Rewards.ArcadeSecret == "" {
		log.Fatal("rewards.arcade_secret is required")
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "development"
	}

	db, err := database.Connect(cfg.Database, env)
	if err != nil {
		logger.Fatal("failed to connect database: ", err)
	}

	// Auto-migrate only in development to avoid accidental production schema changes
	if env == "development" {
		logger.Info("running in development mode - performing auto-migration")
		if err := database.Migrate(db); err != nil {
			logger.Fatal("failed to migrate database: ", err)
		}
	} else {
		logger.Info("running in production mode - skipping auto-migration")
	}

	// Redis is preferred for spin coordination; a single-instance deployment
	// falls back to the in-process coordinator when Redis is unreachable.
	var coord rewards.Coordinator
	if rdb := database.ConnectRedis(cfg.Redis); rdb != nil {
		coord = rewards.NewRedisCoordinator(rdb)
	} else {
		logger.Warn("redis unavailable, using in-process coordination (single instance only)")
		coord = rewards.NewMemoryCoordinator()
	}

	clock, err := rewards.NewCivilClock(cfg.Rewards.Timezone)
	if err != nil {
		logger.Fatal("invalid rewards timezone: ", err)
	}

	var notifier rewards.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier = notify.NewTelegramGateway(cfg.Telegram.BotToken)
	} else {
		logger.Warn("telegram.bot_token not set, prize notifications disabled")
	}

	engine := rewards.NewEngine(db, coord, clock, rewards.NewPrizeTable(rewards.DefaultPrizes), notifier, cfg.Rewards)

	cleanup := scheduler.NewCleanupScheduler(db)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("failed to start cleanup scheduler: ", err)
	}
	defer cleanup.Stop()

	router := routes.InitRouter(engine, cfg)

	// Logging -> Security headers -> Request ID -> Max Body -> Recovery
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(64 << 10)(
					middleware.RecoveryMiddleware(router),
				),
			),
		),
	)

	port := cfg.Server.Port
	if p := os.Getenv("PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting on port ", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown: ", err)
	}

	logger.Info("server exited")
}
