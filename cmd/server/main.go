package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/brokkr/internal"
	"github.com/dukerupert/brokkr/internal/catalog"
	"github.com/dukerupert/brokkr/internal/events"
	"github.com/dukerupert/brokkr/internal/handler/api"
	"github.com/dukerupert/brokkr/internal/middleware"
	"github.com/dukerupert/brokkr/internal/pricing"
	"github.com/dukerupert/brokkr/internal/router"
	"github.com/dukerupert/brokkr/internal/routes"
	"github.com/dukerupert/brokkr/internal/service"
	"github.com/dukerupert/brokkr/internal/store"
	"github.com/dukerupert/brokkr/internal/tax"
	"github.com/dukerupert/brokkr/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize store
	pgStore := store.NewPostgresStore(pool)

	// Load the service catalog
	logger.Info("Loading service catalog...")
	cat, err := catalog.Load(ctx, pgStore)
	if err != nil {
		return fmt.Errorf("failed to load service catalog: %w", err)
	}
	logger.Info("Service catalog loaded", "services", cat.Len())

	// Initialize event publisher
	var publisher events.Publisher
	if cfg.NatsUrl != "" {
		logger.Info("Connecting to NATS...", "url", cfg.NatsUrl)
		publisher, err = events.NewNATSPublisher(cfg.NatsUrl)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		logger.Info("NATS connection established")
	} else {
		logger.Info("No NATS_URL configured, invoice events disabled")
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	// Initialize metrics
	httpMetrics := middleware.NewMetrics(cfg.MetricsNamespace)
	businessMetrics := telemetry.NewBusinessMetrics(cfg.MetricsNamespace)

	// Initialize calculators and services
	calculator := pricing.NewCalculator(pricing.DefaultTables())
	taxCalculator := tax.NewRegionalCalculator(tax.DefaultRegions())

	quoteService := service.NewQuoteService(cat, calculator, businessMetrics)
	invoiceService := service.NewInvoiceService(
		pgStore, cat, quoteService, taxCalculator, publisher, logger, businessMetrics)

	// Configure rate limiting
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		CleanupInterval:   time.Minute,
	})
	defer rateLimiter.Stop()

	// Create router and register routes
	r := router.New(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(),
		httpMetrics.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		rateLimiter.Middleware,
		middleware.WithRequestLogger(logger),
		middleware.RequestLogging(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Health:   api.NewHealthHandler(pgStore),
		Services: api.NewServiceHandler(cat),
		Quotes:   api.NewQuoteHandler(quoteService),
		Invoices: api.NewInvoiceHandler(invoiceService),
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting pricing server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
