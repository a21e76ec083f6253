package shell

import (
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
)

// ComputeStatus derives the today indicator and the streak of consecutive
// days with an entry, counting back from today. A missing entry today does
// not break a streak that ran through yesterday.
func ComputeStatus(entries []entry.JournalEntry, now time.Time) StatusCache {
	days := make(map[string]entry.JournalEntry, len(entries))
	for _, e := range entries {
		days[entry.NormalizeDayKey(e.Date)] = e
	}

	today := entry.NormalizeDate(now)
	st := StatusCache{
		TodayDate: entry.DayKey(today),
		Total:     len(entries),
		UpdatedAt: now,
	}
	if e, ok := days[st.TodayDate]; ok {
		st.Today = true
		st.TodayMood = e.Mood
	}

	check := today
	if !st.Today {
		check = check.AddDate(0, 0, -1)
	}
	for {
		if _, ok := days[entry.DayKey(check)]; !ok {
			break
		}
		st.Streak++
		check = check.AddDate(0, 0, -1)
	}
	return st
}
