package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (ts *toolset) search(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	return nil, SearchOutput{Entries: toResults(ts.vm.FilteredEntries(input.Query), limit)}, nil
}
