package mcptools

import (
	"context"
	"errors"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/chris-regnier/moodjournal/internal/shell"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var errBlankEntry = errors.New("title or content is required")

func (ts *toolset) writeEntry(ctx context.Context, req *mcp.CallToolRequest, input WriteEntryInput) (*mcp.CallToolResult, WriteEntryOutput, error) {
	day, err := dayOrToday(input.Date)
	if err != nil {
		return nil, WriteEntryOutput{}, err
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if err := ts.vm.SelectDate(day); err != nil {
		return nil, WriteEntryOutput{}, err
	}
	ts.vm.BeginEdit()
	draft := journal.Draft{Title: ts.vm.Snapshot().Draft.Title, Content: input.Content}
	if input.Title != "" {
		draft.Title = input.Title
	}
	ts.vm.SetDraft(draft)
	saved, err := ts.vm.Save(ctx)
	if err != nil || saved == nil {
		ts.vm.CancelEdit()
		if err == nil {
			err = errBlankEntry
		}
		return nil, WriteEntryOutput{}, err
	}

	// Invalidate status cache (best-effort)
	if ts.dataDir != "" {
		_ = shell.InvalidateCache(ts.dataDir)
	}

	return nil, WriteEntryOutput{
		ID:      saved.ID,
		Date:    entry.NormalizeDayKey(saved.Date),
		Preview: saved.Preview(200),
	}, nil
}
