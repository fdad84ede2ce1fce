package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/envguard/internal/cli"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the available schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		guard, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		return cli.RunSchemas(cmd.Context(), guard, format, cli.Stdout())
	},
}

var schemasShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print the rules of a schema as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guard, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		sc, err := guard.Schema(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var schemasPushCmd = &cobra.Command{
	Use:   "push NAME FILE",
	Short: "Store a schema in the schema directory or redis",
	Long:  `Decodes FILE and, if it is a valid schema, saves it under NAME in the first writable layer (--schemas, then --redis).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		return cli.RunPush(cmd.Context(), stack, args[0], args[1], cli.Stdout())
	},
}

var schemasRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"delete"},
	Short:   "Remove a schema from the writable layer",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		return cli.RunRemove(cmd.Context(), stack, args[0], cli.Stdout())
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	schemasCmd.AddCommand(schemasShowCmd, schemasPushCmd, schemasRemoveCmd)
	schemasCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text or json")
}
