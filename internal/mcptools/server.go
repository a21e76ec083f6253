// Package mcptools exposes the signed-in user's journal as MCP tools.
package mcptools

import (
	"context"
	"sync"

	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolset binds the tools to one initialized view model. Tools that move the
// selection hold mu so concurrent calls cannot act on each other's date.
type toolset struct {
	vm      *journal.EntryViewModel
	dataDir string
	mu      sync.Mutex
}

// NewJournalMCPServer creates an in-memory MCP server exposing journal tools.
// Returns the server and a client transport for connecting to it.
func NewJournalMCPServer(vm *journal.EntryViewModel, dataDir string) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(vm, dataDir)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with registered journal tools. vm
// must already be initialized for the user. dataDir is used for status cache
// invalidation after writes; pass "" to skip.
func CreateMCPServer(vm *journal.EntryViewModel, dataDir string) *mcp.Server {
	ts := &toolset{vm: vm, dataDir: dataDir}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "moodjournal",
		Version: "1.0.0",
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_entries",
		Description: "Search journal entries by title and content",
	}, ts.search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter_entries",
		Description: "Filter journal entries by date range and mood",
	}, ts.filter)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_entry",
		Description: "Get the journal entry for a date",
	}, ts.getEntry)

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "write_entry",
		Description: "Create or replace the journal entry for a date",
	}, ts.writeEntry)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_mood",
		Description: "Analyze the mood of the journal entry for a date and store the result",
	}, ts.analyzeMood)

	return server
}
