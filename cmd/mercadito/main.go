package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercadito-pos/mercadito-pos/internal/app"
	"github.com/mercadito-pos/mercadito-pos/internal/backend"
	"github.com/mercadito-pos/mercadito-pos/internal/catalog/categories"
	"github.com/mercadito-pos/mercadito-pos/internal/catalog/products"
	"github.com/mercadito-pos/mercadito-pos/internal/inventory"
	"github.com/mercadito-pos/mercadito-pos/internal/ledger"
	"github.com/mercadito-pos/mercadito-pos/internal/platform/cache"
	"github.com/mercadito-pos/mercadito-pos/internal/pos/cashclose"
	"github.com/mercadito-pos/mercadito-pos/internal/query"
	"github.com/mercadito-pos/mercadito-pos/internal/sales"
)

func main() {
	// Money fields travel as JSON numbers on the upstream wire.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	client, err := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	if err != nil {
		logger.Error("configure backend client", slog.Any("error", err))
		os.Exit(1)
	}

	store := query.NewStore(query.Options{
		StaleAfter:  cfg.CacheStaleAfter,
		GCAfter:     cfg.CacheGCAfter,
		MaxAttempts: cfg.RetryMaxAttempts,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	})
	defer store.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dayLedger := ledger.New(redisClient, cfg.LedgerRetention)

	productsService := products.NewService(products.NewAPI(client), store)
	categoriesService := categories.NewService(categories.NewAPI(client), store)
	inventoryService := inventory.NewService(inventory.NewAPI(client), store)
	salesService := sales.NewService(sales.NewAPI(client), store, productsService, dayLedger, logger)
	cashCloseService := cashclose.NewService(dayLedger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ProductsHandler:   products.NewHandler(logger, productsService),
		CategoriesHandler: categories.NewHandler(logger, categoriesService),
		InventoryHandler:  inventory.NewHandler(logger, inventoryService),
		SalesHandler:      sales.NewHandler(logger, salesService),
		CashCloseHandler:  cashclose.NewHandler(logger, cashCloseService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
