package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgebuddy/internal/alert"
	"budgebuddy/internal/backend"
	"budgebuddy/internal/config"
	"budgebuddy/internal/log"
	"budgebuddy/internal/prefs"
	"budgebuddy/internal/worker"
)

// alert-worker consumes budget alerts from the queue and delivers
// notifications. It also drives the daily reminder.
func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting alert-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	// Preferences live in the shared store; the worker only reads them.
	store, err := backend.Open(backend.Type(cfg.DataBackend), cfg.SQLiteDBPath, logger.WithComponent(log.ComponentStorage))
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	preferences := prefs.NewStore(store)

	client, err := alert.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	notifier := worker.LogNotifier{}
	alertWorker := worker.NewAlertWorker(notifier, preferences)
	reminder := worker.NewReminderScheduler(notifier, preferences)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return client.ConsumeBudgetAlerts(ctx, func(msg *alert.BudgetAlertMessage) error {
			return alertWorker.HandleAlertMessage(ctx, msg)
		})
	})

	group.Go(func() error {
		return reminder.Run(ctx, cfg.ReminderCheckInterval)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
