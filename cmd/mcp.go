package cmd

import (
	"github.com/huangsam/hirecast/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Hirecast MCP server",
	Long:  `Launch an MCP server on stdio that allows AI agents to query the recruiting pipelines via standard tools.`,
	// Logs go to stderr, so stdout stays free for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, recordSource, cacheManager)
	},
}
