package main

import (
	"context"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"tunelint/internal/logging"
	mcpserver "tunelint/internal/mcp"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing dataset validation as
tools (validate_dataset, count_tokens) for agent frontends.

The server monitors for parent process death. When the client disconnects
or restarts, the server self-terminates to prevent zombie processes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a limits file (YAML or JSON)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	limits, err := loadLimits(serveConfigPath)
	if err != nil {
		return err
	}

	srv := mcpserver.NewServer(limits, version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting tunelint MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
