package main

import (
	"context"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xaliphostes/stress/internal/logging"
	"github.com/xaliphostes/stress/internal/stressmcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the inversion tools
(list_datasets, run_inversion, evaluate_tensor).

The server monitors for parent process death: when the client disconnects
without closing the transport, it self-terminates to avoid zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv := stressmcp.NewServer(version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stressmcp.WatchParent(ctx, cancel)

	logging.New("serve").Info("starting stress MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
