package entry

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8
)

// DayLayout is the canonical date-only format used for entry dates.
const DayLayout = "2006-01-02"

var idPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

// JournalEntry is one journal record for one calendar day for one user.
type JournalEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Mood        Mood      `json:"mood,omitempty"`
	MoodSummary string    `json:"mood_summary,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Record is the payload for inserting a new entry. The store assigns the ID.
type Record struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Mood        *Mood   `json:"mood,omitempty"`
	MoodSummary *string `json:"mood_summary,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Mood == nil && p.MoodSummary == nil
}

// Apply returns a copy of e with the patch fields applied.
func (p Patch) Apply(e JournalEntry) JournalEntry {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.MoodSummary != nil {
		e.MoodSummary = *p.MoodSummary
	}
	return e
}

// ContentPatch builds a patch that replaces title and content.
func ContentPatch(title, content string) Patch {
	return Patch{Title: &title, Content: &content}
}

// MoodPatch builds a patch that touches only the mood fields.
func MoodPatch(m Mood, summary string) Patch {
	return Patch{Mood: &m, MoodSummary: &summary}
}

// NewID generates a new nanoid for an entry.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

// ValidateID checks whether an ID matches the expected pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid entry ID: %q (must be 8 lowercase alphanumeric characters)", id)
	}
	return nil
}

// ValidateRecord checks that a record names its owner and a well-formed day.
func ValidateRecord(r Record) error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("entry must have an owner")
	}
	if _, err := ParseDay(r.Date); err != nil {
		return err
	}
	if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("entry title and content must not both be empty")
	}
	return nil
}

// Day returns the entry's date as local midnight. Malformed dates yield the zero time.
func (e JournalEntry) Day() time.Time {
	t, err := ParseDay(NormalizeDayKey(e.Date))
	if err != nil {
		return time.Time{}
	}
	return t
}

// EffectiveMood returns the entry mood, defaulting to neutral when absent.
func (e JournalEntry) EffectiveMood() Mood {
	if m, ok := ParseMood(string(e.Mood)); ok {
		return m
	}
	return MoodNeutral
}

// Preview returns a single-line preview of the entry, title first, cut to at
// most maxLen runes.
func (e *JournalEntry) Preview(maxLen int) string {
	text := e.Content
	if t := strings.TrimSpace(e.Title); t != "" {
		text = t
		if c := strings.TrimSpace(e.Content); c != "" {
			text = t + " — " + c
		}
	}
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	switch {
	case len(runes) <= maxLen:
		return text
	case maxLen <= 0:
		return ""
	case maxLen <= 3:
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
