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

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/authz"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/database"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/logging"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/repository"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/routes"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(logging.LevelFor(cfg.AppEnv))

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedLookups(database.DB); err != nil {
		slog.Error("lookup seeding failed", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemo(database.DB, cfg.DemoPassword); err != nil {
			slog.Error("demo seeding failed", "error", err)
		}
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, pgLogHandler)))

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	logging.StartCleanup(cleanupCtx, database.DB, cfg.LogRetentionDays)

	// Services
	reportRepo := repository.NewReportRepository(database.DB)
	authService := services.NewAuthService(database.DB, cfg)
	workflowService := services.NewReportWorkflowService(reportRepo, cfg.DefaultCategoryID)
	queryService := services.NewReportQueryService(reportRepo)

	enforcer, err := authz.New()
	if err != nil {
		slog.Error("authorization setup failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(database.Ping)
	reportHandler := handlers.NewReportHandler(workflowService, queryService)
	registrarHandler := handlers.NewRegistrarHandler(workflowService, queryService)

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
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
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

	routes.Setup(app, cfg, enforcer, authHandler, healthHandler, reportHandler, registrarHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	stopCleanup()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
