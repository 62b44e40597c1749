// Package commands implements the gastosctl operator CLI.
package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/config"
	"gastos/internal/ledger"
	"gastos/internal/log"
	"gastos/internal/services"
)

var (
	backendType string
	csvPath     string

	cfg    *config.Config
	logger *log.Logger
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gastosctl",
		Short:        "Operate the gastos expense ledger from the shell",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = cli.SetupLogger(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"), log.ComponentApp)
			cli.LoadEnvFile(logger)

			loaded := config.Load()
			if backendType != "" {
				loaded.LedgerBackend = backendType
			}
			if csvPath != "" {
				loaded.LedgerCSVPath = csvPath
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			logger = cli.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, log.ComponentApp)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&backendType, "backend", "", "ledger backend (memory, csv, sqlite, postgres); defaults to LEDGER_BACKEND")
	root.PersistentFlags().StringVar(&csvPath, "csv", "", "ledger CSV file; defaults to LEDGER_CSV_PATH")

	root.AddCommand(sendCmd(), categorizeCmd(), exportCmd())
	return root
}

// openLedger builds the configured store and publishers behind an
// ExpenseService. The caller must Close the service.
func openLedger(ctx context.Context) (*services.ExpenseService, backend.Config, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, backend.Config{}, err
	}

	factory := backend.NewFactory(logger)
	store, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, backend.Config{}, err
	}
	pub, err := factory.CreatePublisher(ctx, bcfg)
	if err != nil {
		cli.RunCleanup(logger, store.Cleanup)
		return nil, backend.Config{}, err
	}

	closers := []func() error{store.Cleanup}
	for _, c := range pub.Cleanup {
		closers = append(closers, c)
	}
	return services.NewExpenseService(ledger.NewBook(store.Store), pub.Publisher, closers...), bcfg, nil
}
