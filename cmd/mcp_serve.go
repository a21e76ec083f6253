package cmd

import (
	"github.com/chris-regnier/moodjournal/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes the signed-in
user's journal over stdio transport. This allows MCP clients to read and
write your journal.

Available tools:
  - search_entries: Text search over entry titles and content
  - filter_entries: Filter entries by date range and mood
  - get_entry: Read the entry for a date
  - write_entry: Create or replace the entry for a date
  - analyze_mood: Run mood analysis on the entry for a date

Example client config:
  {
    "mcpServers": {
      "moodjournal": {
        "command": "/path/to/moodjournal",
        "args": ["mcp-serve"]
      }
    }
  }`,
	Annotations: map[string]string{annotationLogStderr: "true"},
	RunE:        runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	sess, err := currentSession()
	if err != nil {
		return err
	}
	vm, err := newViewModel(cmd.Context(), sess.User.ID, true)
	if err != nil {
		return err
	}

	server := mcptools.CreateMCPServer(vm, appConfig.DataDir)

	// stdout is reserved for the MCP protocol; the logger writes to stderr.
	logger.Info("starting MCP server",
		zap.String("transport", "stdio"),
		zap.String("storage", appConfig.Storage),
		zap.String("user_id", sess.User.ID))

	// Blocks until the transport is closed
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
