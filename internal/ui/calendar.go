package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/moodjournal/internal/entry"
)

// CalendarDay describes one cell of the month grid.
type CalendarDay struct {
	Day        int
	HasEntry   bool
	Mood       entry.Mood
	IsToday    bool
	IsSelected bool
}

// CalendarOptions controls the styling of the rendered calendar.
type CalendarOptions struct {
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	MoodStyle     func(entry.Mood) lipgloss.Style
	ShowHeader    bool
}

// CalendarWidth is the rendered width of one week row.
const CalendarWidth = len("Su Mo Tu We Th Fr Sa")

// CalendarDays marks which days of month have entries, which is today, and
// which is selected. today and selected are day keys.
func CalendarDays(month time.Time, entries []entry.JournalEntry, today, selected string) []CalendarDay {
	n := daysIn(month)
	days := make([]CalendarDay, n)
	for i := range days {
		key := entry.DayKey(time.Date(month.Year(), month.Month(), i+1, 0, 0, 0, 0, time.UTC))
		days[i] = CalendarDay{
			Day:        i + 1,
			IsToday:    key == today,
			IsSelected: key == selected,
		}
	}
	for _, e := range entries {
		d := e.Day()
		if d.IsZero() || d.Year() != month.Year() || d.Month() != month.Month() {
			continue
		}
		days[d.Day()-1].HasEntry = true
		days[d.Day()-1].Mood = e.Mood
	}
	return days
}

// RenderCalendar produces a month title and a Sunday-first grid.
func RenderCalendar(month time.Time, days []CalendarDay, opts CalendarOptions) string {
	if month.IsZero() {
		return ""
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	n := daysIn(month)

	meta := make(map[int]CalendarDay, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= n {
			meta[d.Day] = d
		}
	}

	title := first.Format("January 2006")
	pad := max((CalendarWidth-len(title))/2, 0)
	lines := []string{opts.HeaderStyle.Render(strings.Repeat(" ", pad) + title)}
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render("Su Mo Tu We Th Fr Sa"))
	}

	offset := int(first.Weekday())
	rows := (offset + n + 6) / 7
	for row := 0; row < rows; row++ {
		cells := make([]string, 0, 7)
		for col := 0; col < 7; col++ {
			day := row*7 + col - offset + 1
			if day < 1 || day > n {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderCalendarDay(meta[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, opts.EmptyStyle.Render(" ")))
	}
	return strings.Join(lines, "\n")
}

func renderCalendarDay(info CalendarDay, day int, opts CalendarOptions) string {
	style := opts.EmptyStyle
	if info.HasEntry {
		style = opts.EntryStyle
		if info.Mood != "" && opts.MoodStyle != nil {
			style = opts.MoodStyle(info.Mood).Bold(true)
		}
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = opts.SelectedStyle.Inherit(style)
	}
	return style.Render(fmt.Sprintf("%2d", day))
}

func daysIn(month time.Time) int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
