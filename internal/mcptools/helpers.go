package mcptools

import (
	"fmt"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
)

// dayOrToday validates an ISO date, defaulting to today when empty.
func dayOrToday(s string) (string, error) {
	if s == "" {
		return entry.DayKey(time.Now()), nil
	}
	key := entry.NormalizeDayKey(s)
	if _, err := entry.ParseDay(key); err != nil {
		return "", fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return key, nil
}

func toResult(e entry.JournalEntry) EntryResult {
	return EntryResult{
		ID:          e.ID,
		Date:        entry.NormalizeDayKey(e.Date),
		Title:       e.Title,
		Preview:     e.Preview(100),
		Mood:        e.Mood,
		MoodSummary: e.MoodSummary,
	}
}

func toResults(entries []entry.JournalEntry, limit int) []EntryResult {
	results := make([]EntryResult, 0, len(entries))
	for _, e := range entries {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, toResult(e))
	}
	return results
}
