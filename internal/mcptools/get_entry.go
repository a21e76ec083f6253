package mcptools

import (
	"context"
	"fmt"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (ts *toolset) getEntry(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, GetEntryOutput, error) {
	day, err := dayOrToday(input.Date)
	if err != nil {
		return nil, GetEntryOutput{}, err
	}
	e, ok := ts.vm.EntryFor(day)
	if !ok {
		return nil, GetEntryOutput{}, fmt.Errorf("%s: %w", day, journal.ErrNoEntry)
	}
	return nil, GetEntryOutput{
		ID:          e.ID,
		Date:        entry.NormalizeDayKey(e.Date),
		Title:       e.Title,
		Content:     e.Content,
		Mood:        e.Mood,
		MoodSummary: e.MoodSummary,
	}, nil
}
