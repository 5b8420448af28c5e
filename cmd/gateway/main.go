package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payrexx-gateway/internal/application/services"
	"github.com/payrexx-gateway/internal/config"
	"github.com/payrexx-gateway/internal/infrastructure/payrexx"
	"github.com/payrexx-gateway/internal/infrastructure/persistence/postgres"
	"github.com/payrexx-gateway/internal/interfaces/rest"
	"github.com/payrexx-gateway/internal/interfaces/rest/handlers"
	"github.com/payrexx-gateway/internal/interfaces/rest/middleware"
	"github.com/payrexx-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payrexx gateway service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactionRepo := postgres.NewTransactionRepository(db)

	gatewayClient := payrexx.NewClient(cfg.Payrexx)
	retryGatewayClient := payrexx.NewRetryClient(gatewayClient, cfg.Retry)

	reconcileService := services.NewReconcileService(transactionRepo, logger)
	checkoutService := services.NewCheckoutService(transactionRepo, retryGatewayClient, reconcileService, logger)
	webhookService := services.NewWebhookService(transactionRepo, retryGatewayClient, reconcileService, logger)

	h := handlers.NewHandlers(checkoutService, webhookService, logger)

	router := http.Handler(rest.NewRouter(h, logger))

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := worker.NewStaleOrderSweeper(
		transactionRepo,
		cfg.Sweeper.Interval,
		cfg.Sweeper.StaleAge,
		cfg.Sweeper.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweeper.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
