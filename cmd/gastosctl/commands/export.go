package commands

import (
	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/ledger/csvfile"
)

// export: dump the whole ledger as CSV on stdout.
func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the ledger as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, bcfg, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer cli.RunCleanup(logger, svc.Close)

			records, err := svc.Records(cmd.Context())
			if err != nil {
				return err
			}
			return csvfile.Encode(cmd.OutOrStdout(), records, bcfg.Location)
		},
	}
}
