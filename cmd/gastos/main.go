package main

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"gastos/internal/backend"
	"gastos/internal/categorizer"
	"gastos/internal/cli"
	"gastos/internal/config"
	apphttp "gastos/internal/http"
	"gastos/internal/interpreter"
	"gastos/internal/ledger"
	"gastos/internal/log"
	"gastos/internal/services"
)

func main() {
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cli.LoadEnvFile(logger)

	cfg, err := cli.LoadAndValidateConfig(nil)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger = cli.SetupLogger(os.Stdout, cfg.LogLevel, log.ComponentApp)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(parent context.Context, cfg *config.Config, logger *log.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}

	factory := backend.NewFactory(nil)
	store, err := factory.CreateBackend(parent, bcfg)
	if err != nil {
		return err
	}
	pub, err := factory.CreatePublisher(parent, bcfg)
	if err != nil {
		cli.RunCleanup(logger, store.Cleanup)
		return err
	}

	closers := []func() error{store.Cleanup}
	for _, c := range pub.Cleanup {
		closers = append(closers, c)
	}
	svc := services.NewExpenseService(ledger.NewBook(store.Store), pub.Publisher, closers...)
	defer cli.RunCleanup(logger, svc.Close)

	interp := interpreter.New(svc, categorizer.New(), interpreter.WithLocation(bcfg.Location))
	srv := apphttp.NewServer(":"+cfg.Port, interp, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		ReplyCacheTTL:      cfg.ReplyCacheTTL,
		ReplyCacheSize:     cfg.ReplyCacheSize,
	})

	ctx, stop := cli.SignalContext(parent, logger)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gastos server",
			"port", cfg.Port,
			log.FieldBackend, cfg.LedgerBackend)
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
