package main

import (
	"fmt"

	"github.com/aretw0/envguard/pkg/adapters/mcp"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes validation, comparison and the schema catalog as MCP tools.
This allows AI agents to check environment files before deploying them.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		logger := settings.logger

		guard, stack, err := newGuard(cmd, domain.Hooks{})
		if err != nil {
			return err
		}
		defer stack.Close()

		srv := mcp.NewServer(guard, logger)

		// Logs go to stderr, so they never corrupt JSON-RPC on stdout.
		switch transport {
		case "stdio":
			logger.Info("Starting envguard MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting envguard MCP server (SSE)", "addr", addr)
			if err := srv.ServeSSE(cmd.Context(), addr); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
