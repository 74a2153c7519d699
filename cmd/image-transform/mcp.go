package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-transform/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdin/stdout",
	Long: `Run a Model Context Protocol server speaking JSON-RPC 2.0 over stdio.
Configure it as a stdio server in your MCP client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.New(cfg).Run()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
