package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docman/docs"
	"docman/internal/config"
	"docman/internal/database"
	"docman/internal/database/migration"
	handlers "docman/internal/http/handler"
	"docman/internal/http/middleware"
	"docman/internal/logger"
	"docman/internal/metrics"
	"docman/internal/otel"
	"docman/internal/repository/postgres"
	"docman/internal/service"
	"docman/internal/storage"
)

// bodyOverhead leaves room for the JSON envelope around a maximum-size document.
const bodyOverhead = 64 * 1024

// @title Docman API
// @version 1.0
// @description Versioned lender documents.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	loc := cfg.Location()

	appLogger, err := logger.New(cfg.Log, os.Stdout, loc)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Environment, appLogger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLogger.Error("tracing_shutdown_failed", "error", err)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	dsn, err := database.BuildPostgresDSN(cfg.Database)
	if err != nil {
		log.Fatalf("failed to build database DSN: %v", err)
	}
	if err := migration.EnsureMigrated(ctx, dsn, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	store := postgres.NewStore(db)
	profiles := service.NewProfileService(store, appLogger)
	svc := handlers.Services{
		Documents: service.NewDocumentService(store, blobs, service.DocumentServiceConfig{
			Environment:     cfg.Environment,
			MaxContentBytes: cfg.MaxContentBytes(),
			Logger:          appLogger,
		}),
		LenderDocuments: service.NewLenderDocumentService(store, appLogger),
		Lenders:         service.NewLenderService(store, appLogger),
		Profiles:        profiles,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.RegisterCollectors(reg)
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.MaxContentBytes()) + bodyOverhead,
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, db, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		appLogger.Info("server_shutdown")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLogger.Error("server_shutdown_failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	appLogger.Info("server_starting", "addr", addr, "environment", cfg.Environment, "storage_backend", cfg.Storage.Backend)

	if err := app.Listen(addr); err != nil {
		appLogger.Error("server_failed", "error", err)
		os.Exit(1)
	}
}
