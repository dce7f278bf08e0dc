// ABOUTME: MCP server command implementation for stufflog.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "github.com/2389-research/stufflog/internal/mcp"
	"github.com/2389-research/stufflog/internal/stufflog"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents to list, add,
query, and search stufflog entries through a standardized protocol.
With --category, tools that omit a category use it.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []mcppkg.ServerOption{mcppkg.WithVersion(stufflog.Version)}
	if flagCategory != "" {
		opts = append(opts, mcppkg.WithDefaultCategory(flagCategory))
	}

	server, err := mcppkg.NewServer(globalApp, opts...)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
