package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nazaara/billing/internal/app"
	"github.com/nazaara/billing/internal/categories"
	"github.com/nazaara/billing/internal/customers"
	"github.com/nazaara/billing/internal/documents"
	"github.com/nazaara/billing/internal/invoices"
	"github.com/nazaara/billing/internal/observability"
	"github.com/nazaara/billing/internal/platform/cache"
	"github.com/nazaara/billing/internal/platform/db"
	"github.com/nazaara/billing/internal/platform/httpx"
	"github.com/nazaara/billing/internal/products"
	"github.com/nazaara/billing/internal/reports"
	"github.com/nazaara/billing/internal/settings"
)

const usage = "usage: billing [serve|migrate]"

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	switch cmd {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(cmd, slog.Any("error", err))
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.Migrate(ctx, pool, logger)
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	health := []app.Pinger{pool}
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		health = append(health, redisPinger{client: redisClient})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	validator := httpx.NewValidator()
	metrics := observability.NewMetrics()
	loc := cfg.Location()

	settingsService := settings.NewService(
		settings.NewRepository(pool),
		cache.NewVersioned(redisClient, "settings", cfg.CacheTTL, logger),
		logger,
	)

	customersService := customers.NewService(customers.NewRepository(pool))

	categoriesService := categories.NewService(categories.NewRepository(pool), logger)
	if err := categoriesService.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	productsService := products.NewService(products.NewRepository(pool))

	invoicesRepo := invoices.NewRepository(pool)
	reportsService := reports.NewService(
		invoicesRepo,
		cache.NewVersioned(redisClient, "reports", cfg.CacheTTL, logger),
		loc,
		logger,
	)
	invoicesService := invoices.NewService(invoicesRepo, customersService, logger,
		invoices.WithInvalidators(settingsService, reportsService),
		invoices.WithObserver(metrics),
		invoices.WithLocation(loc),
	)

	renderer, err := documents.NewPDFRenderer(cfg.GotenbergURL, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return fmt.Errorf("pdf renderer: %w", err)
	}
	if renderer == nil {
		logger.Info("GOTENBERG_URL not set, PDF rendering disabled")
	}
	documentsService := documents.NewService(invoicesService, settingsService, categoriesService, renderer, loc, cfg.WhatsAppCountryCode)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Metrics:           metrics,
		Health:            health,
		CustomersHandler:  customers.NewHandler(logger, customersService, validator),
		InvoicesHandler:   invoices.NewHandler(logger, invoicesService, validator),
		DocumentsHandler:  documents.NewHandler(logger, documentsService),
		ProductsHandler:   products.NewHandler(logger, productsService, validator),
		CategoriesHandler: categories.NewHandler(logger, categoriesService, validator),
		SettingsHandler:   settings.NewHandler(logger, settingsService, validator),
		ReportsHandler:    reports.NewHandler(logger, reportsService),
	})

	if app.InTestMode() {
		logger.Info("test mode detected, skipping listener")
		return nil
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
