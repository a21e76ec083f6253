package entry

import (
	"fmt"
	"strings"
	"time"
)

// NormalizeDate normalizes a time.Time to midnight (00:00:00) in the local timezone.
//
// Example:
//
//	input:  2024-01-15 14:30:45.123456789
//	output: 2024-01-15 00:00:00.0
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// DayKey formats t at day granularity ("2006-01-02").
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// Today returns today's day key.
func Today() string {
	return DayKey(time.Now())
}

// ParseDay parses a "2006-01-02" string as local midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// NormalizeDayKey reduces a stored date string to its day key. Stores may hand
// back a bare date ("2024-05-01") or a timestamp ("2024-05-01T00:00:00Z");
// both normalize to "2024-05-01". Unparseable input is returned trimmed.
func NormalizeDayKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(DayLayout) {
		if _, err := time.Parse(DayLayout, s[:len(DayLayout)]); err == nil {
			return s[:len(DayLayout)]
		}
	}
	return s
}

// SameDay reports whether two stored date strings name the same calendar day.
func SameDay(a, b string) bool {
	return NormalizeDayKey(a) == NormalizeDayKey(b)
}
