package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/config"
	"github.com/freelancehq/freelance-tracker/internal/database"
	"github.com/freelancehq/freelance-tracker/internal/handler"
	"github.com/freelancehq/freelance-tracker/internal/logging"
	"github.com/freelancehq/freelance-tracker/internal/middleware"
	"github.com/freelancehq/freelance-tracker/internal/queue"
	"github.com/freelancehq/freelance-tracker/internal/repository"
	"github.com/freelancehq/freelance-tracker/internal/router"
	queuepublisher "github.com/freelancehq/freelance-tracker/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment
	logging.Setup()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		slog.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db, cfg.DBName); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Nil when Redis is unreachable; the limiter degrades to a no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable, rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	clients := repository.NewClientRepo(db)
	projects := repository.NewProjectRepo(db)
	payments := repository.NewPaymentRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	clientH := handler.NewClientHandler(clients)
	projectH := handler.NewProjectHandler(projects, clients)
	paymentH := handler.NewPaymentHandler(payments, projects, queuepublisher.New())
	dashH := handler.NewDashboardHandler(payments, projects, clients)

	// Ledger consumer for payment.paid events; reconnects on its own.
	go queue.StartPaymentConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterAPI(e, clientH, projectH, paymentH, dashH, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
