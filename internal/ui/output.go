package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// FormatEntrySaved confirms a save.
func FormatEntrySaved(w io.Writer, e entry.JournalEntry) {
	fmt.Fprintf(w, "Saved entry %s for %s\n", e.ID, entry.NormalizeDayKey(e.Date))
}

// FormatNoChanges reports that nothing was written for day.
func FormatNoChanges(w io.Writer, day string) {
	fmt.Fprintf(w, "No changes for %s.\n", day)
}

// FormatEntryFull prints metadata followed by the rendered entry.
func FormatEntryFull(w io.Writer, e entry.JournalEntry, markdownStyle string) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date:"), entry.NormalizeDayKey(e.Date))
	tbl.AddRow(bold.Sprint("Entry:"), e.ID)
	if e.Mood != "" {
		tbl.AddRow(bold.Sprint("Mood:"), fmt.Sprintf("%s %s", e.EffectiveMood().Icon(), e.EffectiveMood()))
	}
	tbl.AddRow(bold.Sprint("Modified:"), e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintln(w, tbl)
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderEntry(e, 80, markdownStyle))
}

// FormatEntryList prints one row per entry: date, mood icon, preview.
func FormatEntryList(w io.Writer, entries []entry.JournalEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No journal entries found.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 72
	tbl.AddRow(bold.Sprint("DATE"), bold.Sprint("MOOD"), bold.Sprint("ENTRY"))
	for _, e := range entries {
		icon := faint.Sprint("·")
		if e.Mood != "" {
			icon = e.EffectiveMood().Icon()
		}
		tbl.AddRow(entry.NormalizeDayKey(e.Date), icon, e.Preview(60))
	}
	fmt.Fprintln(w, tbl)
}

// FormatMood prints the mood reflection attached to an entry.
func FormatMood(w io.Writer, e entry.JournalEntry) {
	m := e.EffectiveMood()
	fmt.Fprintf(w, "%s %s\n", m.Icon(), bold.Sprint(string(m)))
	if e.MoodSummary != "" {
		fmt.Fprintln(w, e.MoodSummary)
	}
}

// StatusCheck is one line of `moodjournal status`.
type StatusCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// FormatStatus prints checks as a table with a pass/fail marker.
func FormatStatus(w io.Writer, checks []StatusCheck) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range checks {
		mark := green.Sprint("✓")
		if !c.OK {
			mark = red.Sprint("✗")
		}
		tbl.AddRow(mark, bold.Sprint(c.Name), c.Detail)
	}
	fmt.Fprintln(w, tbl)
}

// FormatJSON writes any value as indented JSON.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EntrySummary is the JSON shape of a list row.
type EntrySummary struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Title     string     `json:"title,omitempty"`
	Preview   string     `json:"preview"`
	Mood      entry.Mood `json:"mood,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToSummaries converts entries to list rows for JSON output.
func ToSummaries(entries []entry.JournalEntry) []EntrySummary {
	out := make([]EntrySummary, len(entries))
	for i, e := range entries {
		out[i] = EntrySummary{
			ID:        e.ID,
			Date:      entry.NormalizeDayKey(e.Date),
			Title:     e.Title,
			Preview:   e.Preview(60),
			Mood:      e.Mood,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return out
}
