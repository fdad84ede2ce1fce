package main

import (
	"github.com/aretw0/envguard/internal/cli"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare FILE_A FILE_B",
	Short: "Compare two .env files under the same schema",
	Long: `Validates both files and reports the variables valid on one side only and
those whose values differ after type coercion. Exits with status 1 when any
difference is found.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := checkOptions(cmd)
		if err != nil {
			return err
		}

		guard, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		return cli.RunCompare(cmd.Context(), guard, args[0], args[1], opts, cli.Stdout())
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addCheckFlags(compareCmd)
}
