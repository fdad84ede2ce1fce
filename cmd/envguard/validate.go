package main

import (
	"github.com/aretw0/envguard/internal/cli"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a .env file against a schema",
	Long: `Validates FILE ("-" for stdin) and prints the missing, invalid, extra and
validated variables. Exits with status 1 when anything is missing or invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := checkOptions(cmd)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")

		guard, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		if watch {
			return cli.RunWatch(cmd.Context(), guard, args[0], opts, cli.Stdout(), settings.logger)
		}
		return cli.RunValidate(cmd.Context(), guard, args[0], opts, cli.Stdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addCheckFlags(validateCmd)
	validateCmd.Flags().BoolP("watch", "w", false, "Validate again whenever the file or a schema changes")
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("schema", "s", "", "Name of the schema to apply (default from --default-schema)")
	cmd.Flags().String("schema-file", "", "Path to an inline YAML schema; takes precedence over --schema")
	cmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text, json or markdown")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-file")
}

func checkOptions(cmd *cobra.Command) (cli.CheckOptions, error) {
	var opts cli.CheckOptions
	opts.Schema, _ = cmd.Flags().GetString("schema")
	opts.SchemaFile, _ = cmd.Flags().GetString("schema-file")
	format, _ := cmd.Flags().GetString("format")

	format, err := cli.ParseFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Format = format
	return opts, nil
}
