package main

import (
	"context"
	"errors"
	"os"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/cache"
	"gastos/internal/cli"
	"gastos/internal/config"
	"gastos/internal/log"
	gsheet "gastos/internal/sheets/google"
	"gastos/internal/worker"
)

const seenSweepInterval = time.Hour

func main() {
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	cli.LoadEnvFile(logger)

	cfg, err := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger = cli.SetupLogger(os.Stdout, cfg.LogLevel, log.ComponentWorker)
	logger.Info("Starting gastos-worker")

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(parent context.Context, cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext(parent, logger)
	defer stop()

	sheetsClient, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer cli.RunCleanup(logger, amqpClient.Close)

	mirror := worker.NewMirrorWorker(sheetsClient)
	caches := cache.NewManager()
	caches.Register(mirror.Cache())
	caches.StartCleanup(seenSweepInterval)
	defer caches.Stop()

	if err := mirror.Run(ctx, amqpClient); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
