package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/internal/cli"
	"github.com/aretw0/envguard/internal/config"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/aretw0/envguard/pkg/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "envguard",
	Short: "envguard validates and compares .env files against schemas",
	Long: `envguard checks .env files against declarative YAML schemas.

It reports missing, invalid and undeclared variables, compares two environments
after type coercion, and serves the same checks over HTTP and MCP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// settings holds the configuration resolved before every command.
var settings struct {
	cfg    config.Config
	logger *slog.Logger
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		ctx.Cancel()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to an envguard.yaml configuration file")
	flags.String("schemas", "", "Directory of schema files, layered over the built-in schemas")
	flags.String("redis", "", "Redis address of a shared schema store (host:port)")
	flags.String("default-schema", envguard.DefaultSchema, "Schema used when none is selected")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
}

// loadSettings reads the config file, then applies the flags the user set.
func loadSettings(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"schemas":        &cfg.SchemasDir,
		"redis":          &cfg.Redis.Addr,
		"default-schema": &cfg.DefaultSchema,
		"log-level":      &cfg.Log.Level,
		"log-format":     &cfg.Log.Format,
	}
	for name, field := range overrides {
		if cmd.Flags().Changed(name) {
			*field, _ = cmd.Flags().GetString(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	settings.cfg = cfg
	settings.logger = cfg.Logger()
	return nil
}

// newGuard builds a Guard over the configured schema stack, logging every call.
func newGuard(cmd *cobra.Command, hooks domain.Hooks) (*envguard.Guard, *cli.Stack, error) {
	hooks = observability.LogHooks(settings.logger).Merge(hooks)
	return cli.NewGuard(cmd.Context(), settings.cfg, settings.logger, hooks)
}
