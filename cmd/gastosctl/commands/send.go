package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gastos/internal/categorizer"
	"gastos/internal/cli"
	"gastos/internal/interpreter"
	"gastos/internal/reply"
)

// send <message...>: interpret a message as if it arrived on the webhook.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message...>",
		Short: "Interpret a message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, bcfg, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer cli.RunCleanup(logger, svc.Close)

			interp := interpreter.New(svc, categorizer.New(),
				interpreter.WithLocation(bcfg.Location),
				interpreter.WithLogger(logger))

			res := interp.Interpret(cmd.Context(), strings.Join(args, " "))
			text, err := reply.Format(res)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
