package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gastos/internal/categorizer"
)

func categorizeCmd() *cobra.Command {
	var showRules bool

	cmd := &cobra.Command{
		Use:   "categorize <description...>",
		Short: "Print the category a description is filed under",
		Args: func(cmd *cobra.Command, args []string) error {
			if showRules {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := categorizer.New()
			out := cmd.OutOrStdout()
			if showRules {
				for _, rule := range c.Rules() {
					fmt.Fprintf(out, "%s: %s\n", rule.Category, strings.Join(rule.Keywords, ", "))
				}
				fmt.Fprintf(out, "%s: (padrão)\n", c.Fallback())
				return nil
			}
			_, err := fmt.Fprintln(out, c.Classify(strings.Join(args, " ")))
			return err
		},
	}
	cmd.Flags().BoolVar(&showRules, "rules", false, "list the keyword table instead")
	return cmd
}
