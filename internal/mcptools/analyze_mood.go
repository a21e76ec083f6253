package mcptools

import (
	"context"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (ts *toolset) analyzeMood(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeMoodInput) (*mcp.CallToolResult, AnalyzeMoodOutput, error) {
	day, err := dayOrToday(input.Date)
	if err != nil {
		return nil, AnalyzeMoodOutput{}, err
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if err := ts.vm.SelectDate(day); err != nil {
		return nil, AnalyzeMoodOutput{}, err
	}
	e, err := ts.vm.RequestMoodAnalysis(ctx)
	if err != nil {
		return nil, AnalyzeMoodOutput{}, err
	}
	return nil, AnalyzeMoodOutput{
		ID:      e.ID,
		Date:    entry.NormalizeDayKey(e.Date),
		Mood:    e.Mood,
		Icon:    entry.MoodIcon(e.Mood),
		Summary: e.MoodSummary,
	}, nil
}
