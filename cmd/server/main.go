package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/chat"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/matching"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/onboarding"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/opportunities"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/resources"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/sessions"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps/uploads"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/email"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/meeting"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/rag"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	level := logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(level),
		pgLogHandler,
	)))

	// Outbound collaborators. Each one degrades on its own when unconfigured.
	status := map[string]string{}

	ai := completion.NewClient(cfg)
	defer ai.Close()
	status["completion"] = enabled(ai.Configured())

	meetings := meeting.NewClient(cfg)
	defer meetings.Close()
	status["meeting"] = enabled(cfg.MeetingAPIURL != "")

	mailer := email.NewClient(cfg)
	defer mailer.Close()
	status["email"] = enabled(mailer.Enabled())

	retriever := rag.NewClient(cfg)
	defer retriever.Close()
	status["rag"] = enabled(cfg.RAGURL != "")

	var store storage.Store
	status["storage"] = "disabled"
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg)
		if err != nil {
			slog.Warn("object storage unavailable, uploads disabled", "error", err)
			status["storage"] = "unavailable"
		} else {
			defer gcs.Close()
			store = gcs
			status["storage"] = "ok"
		}
	}

	// Chat fan-out: with Redis every instance relays published messages to
	// its own hub; without it the hub is the bus.
	hub := realtime.NewHub()
	var bus realtime.Bus = hub
	var forwarderDone <-chan struct{}
	status["realtime"] = "local"
	if cfg.RedisAddr != "" {
		redisBus, err := realtime.NewRedisBus(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisChannel)
		if err != nil {
			slog.Warn("redis unavailable, chat fan-out stays local", "error", err)
		} else {
			done, err := redisBus.StartForwarder(ctx, hub.Broadcast)
			if err != nil {
				slog.Warn("redis forwarder failed, chat fan-out stays local", "error", err)
				_ = redisBus.Close()
			} else {
				defer redisBus.Close()
				bus = redisBus
				forwarderDone = done
				status["realtime"] = "redis"
			}
		}
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	moderationService := services.NewModerationService(database.DB)
	referenceService := services.NewReferenceService(database.DB, 10*time.Minute)
	adminService := services.NewAdminService(database.DB)

	// Daily cleanup: 30-day log retention, expired refresh tokens
	cleanupDone := make(chan struct{})
	logging.StartCleanup(cleanupDone,
		logging.SystemLogJob(database.DB),
		logging.Job{Name: "refresh_tokens", Purge: authService.PurgeExpiredTokens},
	)

	plugins := []apps.Plugin{
		onboarding.New(referenceService, ai),
		matching.New(ai),
		opportunities.New(ai),
		resources.New(retriever),
		sessions.New(meetings, mailer),
		chat.New(moderationService, hub, bus),
		uploads.New(store),
	}

	for _, p := range plugins {
		if modelList := p.Models(); len(modelList) > 0 {
			if err := database.MigrateModels(modelList); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(modelList))
		}
	}
	if err := database.SeedAwards(database.DB); err != nil {
		slog.Error("award seed failed", "error", err)
		os.Exit(1)
	}

	legalHandler, err := handlers.NewLegalHandler(cfg.SupportEmail)
	if err != nil {
		slog.Error("legal pages failed to render", "error", err)
		os.Exit(1)
	}
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(status),
		Moderation: handlers.NewModerationHandler(moderationService),
		Legal:      legalHandler,
		Admin:      handlers.NewAdminHandler(adminService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, database.DB, h, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "services", status)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stop()
	if forwarderDone != nil {
		select {
		case <-forwarderDone:
		case <-time.After(5 * time.Second):
			slog.Warn("redis forwarder did not stop in time")
		}
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func enabled(ok bool) string {
	if ok {
		return "ok"
	}
	return "disabled"
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(),
			"trace_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
