package mcptools

import (
	"context"
	"fmt"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (ts *toolset) filter(ctx context.Context, req *mcp.CallToolRequest, input FilterInput) (*mcp.CallToolResult, FilterOutput, error) {
	var start, end string
	if input.StartDate != "" {
		d, err := dayOrToday(input.StartDate)
		if err != nil {
			return nil, FilterOutput{}, err
		}
		start = d
	}
	if input.EndDate != "" {
		d, err := dayOrToday(input.EndDate)
		if err != nil {
			return nil, FilterOutput{}, err
		}
		end = d
	}

	var want entry.Mood
	if input.Mood != "" {
		m, ok := entry.ParseMood(input.Mood)
		if !ok {
			return nil, FilterOutput{}, fmt.Errorf("unknown mood %q", input.Mood)
		}
		want = m
	}

	var matched []entry.JournalEntry
	for _, e := range ts.vm.Entries() {
		day := entry.NormalizeDayKey(e.Date)
		// day keys sort lexically
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		if want != "" && e.Mood != want {
			continue
		}
		matched = append(matched, e)
	}

	return nil, FilterOutput{Entries: toResults(matched, input.Limit)}, nil
}
