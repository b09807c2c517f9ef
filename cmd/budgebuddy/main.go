package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgebuddy/internal/alert"
	"budgebuddy/internal/backend"
	"budgebuddy/internal/config"
	"budgebuddy/internal/export"
	apphttp "budgebuddy/internal/http"
	"budgebuddy/internal/log"
	"budgebuddy/internal/prefs"
	"budgebuddy/internal/services"
)

func main() {
	// Load .env for local development (ignore errors in production).
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := backend.Open(backend.Type(cfg.DataBackend), cfg.SQLiteDBPath, logger.WithComponent(log.ComponentStorage))
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	preferences := prefs.NewStore(store)

	// The alert channel is optional; the ledger works without it.
	var publisher services.AlertPublisher
	if cfg.AMQPURL != "" {
		client, err := alert.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without alerts", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP alert channel initialized",
				"exchange", cfg.AMQPExchange, log.FieldQueue, cfg.AMQPQueue)
		}
	}

	ledger := services.NewLedgerService(store, preferences, publisher)
	backup := export.NewService(ledger, store, ledger)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, preferences, backup, cfg.ExportDir, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return ledger.Run(ctx)
	})

	group.Go(func() error {
		logger.Info("Starting budgebuddy server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
