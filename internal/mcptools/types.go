package mcptools

import "github.com/chris-regnier/moodjournal/internal/entry"

// SearchInput is the input schema for the search_entries MCP tool.
type SearchInput struct {
	Query string `json:"query" jsonschema-description:"Text to search for in entry titles and content"`
	Limit int    `json:"limit,omitempty" jsonschema-description:"Maximum number of results to return"`
}

// SearchOutput is the output schema for the search_entries MCP tool.
type SearchOutput struct {
	Entries []EntryResult `json:"entries"`
}

// FilterInput is the input schema for the filter_entries MCP tool.
type FilterInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema-description:"ISO date lower bound (inclusive)"`
	EndDate   string `json:"end_date,omitempty" jsonschema-description:"ISO date upper bound (inclusive)"`
	Mood      string `json:"mood,omitempty" jsonschema-description:"Only entries with this mood label"`
	Limit     int    `json:"limit,omitempty" jsonschema-description:"Maximum number of results"`
}

// FilterOutput is the output schema for the filter_entries MCP tool.
type FilterOutput struct {
	Entries []EntryResult `json:"entries"`
}

// EntryResult is the common output format for entry-related MCP tools.
type EntryResult struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Title       string     `json:"title,omitempty"`
	Preview     string     `json:"preview"`
	Mood        entry.Mood `json:"mood,omitempty"`
	MoodSummary string     `json:"mood_summary,omitempty"`
}

// GetEntryInput is the input schema for the get_entry MCP tool.
type GetEntryInput struct {
	Date string `json:"date" jsonschema-description:"ISO date of the entry"`
}

// GetEntryOutput is the output schema for the get_entry MCP tool.
type GetEntryOutput struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Title       string     `json:"title,omitempty"`
	Content     string     `json:"content"`
	Mood        entry.Mood `json:"mood,omitempty"`
	MoodSummary string     `json:"mood_summary,omitempty"`
}

// WriteEntryInput is the input schema for the write_entry MCP tool.
type WriteEntryInput struct {
	Date    string `json:"date,omitempty" jsonschema-description:"ISO date of the entry; defaults to today"`
	Title   string `json:"title,omitempty" jsonschema-description:"Entry title; omitted keeps the current title"`
	Content string `json:"content" jsonschema-description:"Entry body"`
}

// WriteEntryOutput is the output schema for the write_entry MCP tool.
type WriteEntryOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Preview string `json:"preview"`
}

// AnalyzeMoodInput is the input schema for the analyze_mood MCP tool.
type AnalyzeMoodInput struct {
	Date string `json:"date,omitempty" jsonschema-description:"ISO date of the entry; defaults to today"`
}

// AnalyzeMoodOutput is the output schema for the analyze_mood MCP tool.
type AnalyzeMoodOutput struct {
	ID      string     `json:"id"`
	Date    string     `json:"date"`
	Mood    entry.Mood `json:"mood"`
	Icon    string     `json:"icon"`
	Summary string     `json:"summary"`
}
