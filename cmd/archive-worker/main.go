package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "archive-worker"})
	applog.SetDefault(logger)

	logger.Info("Starting archive worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, 15*time.Second)
	result, err := backend.NewFactory(logger.Logger).CreateBackend(startupCtx, backendCfg)
	startupCancel()
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cleanupCancel()
			if err := result.Cleanup(cleanupCtx); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	processor := services.NewArchiveProcessor(
		result.Stores.Transactions,
		result.Stores.Budgets,
		result.Stores.Archives)

	// Refresh the running month's archive once at startup so a restarted
	// worker catches up with changes it missed.
	if err := processor.ArchiveCurrentMonth(ctx); err != nil {
		logger.Error("Startup archive refresh failed", "error", err)
	}

	// Change events keep the current month's archive fresh.
	if cfg.AMQPURL != "" {
		amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			err := amqpClient.ConsumeChanges(ctx, func(msg *events.ChangeMessage) error {
				return processor.ArchiveCurrentMonth(ctx)
			})
			if err != nil && err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
				cancel()
			}
		}()
	} else {
		logger.Info("AMQP disabled, archiving on schedule only")
	}

	// The cron schedule seals the just-ended month shortly after roll-over.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.ArchiveCron, func() {
		if err := processor.ArchivePreviousMonth(ctx); err != nil {
			logger.Error("Scheduled archive failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("Invalid archive cron expression", "error", err, "cron", cfg.ArchiveCron)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Archive schedule registered", "cron", cfg.ArchiveCron)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		logger.Warn("Scheduler stop timeout reached")
	}
	logger.Info("Archive worker stopped")
}
