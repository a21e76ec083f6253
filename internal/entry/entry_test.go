package entry

import (
	"testing"
	"time"
	"unicode/utf8"
)

func TestNewID(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if err := ValidateID(id); err != nil {
		t.Errorf("generated ID %q is invalid: %v", id, err)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"abcd1234", true},
		{"ABCD1234", false},
		{"abc", false},
		{"abcd12345", false},
		{"abcd-123", false},
	}
	for _, tt := range tests {
		err := ValidateID(tt.id)
		if tt.valid && err != nil {
			t.Errorf("ValidateID(%q) = %v, want nil", tt.id, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateID(%q) = nil, want error", tt.id)
		}
	}
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name  string
		rec   Record
		valid bool
	}{
		{"title only", Record{UserID: "u1", Date: "2024-05-01", Title: "A"}, true},
		{"content only", Record{UserID: "u1", Date: "2024-05-01", Content: "x"}, true},
		{"blank", Record{UserID: "u1", Date: "2024-05-01", Title: "  ", Content: "\n"}, false},
		{"no owner", Record{Date: "2024-05-01", Content: "x"}, false},
		{"bad date", Record{UserID: "u1", Date: "05/01/2024", Content: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if tt.valid != (err == nil) {
				t.Errorf("ValidateRecord() = %v, valid = %v", err, tt.valid)
			}
		})
	}
}

func TestMoodIconExhaustive(t *testing.T) {
	seen := make(map[string]Mood)
	for _, m := range Moods {
		icon := MoodIcon(m)
		if icon == "" {
			t.Errorf("MoodIcon(%q) is empty", m)
		}
		if prev, dup := seen[icon]; dup {
			t.Errorf("moods %q and %q share icon %q", prev, m, icon)
		}
		seen[icon] = m
	}
	if got, want := MoodIcon(""), MoodIcon(MoodNeutral); got != want {
		t.Errorf("MoodIcon(absent) = %q, want neutral %q", got, want)
	}
	if got, want := MoodIcon("furious"), MoodIcon(MoodNeutral); got != want {
		t.Errorf("MoodIcon(unknown) = %q, want neutral %q", got, want)
	}
	if got, want := MoodIcon("HAPPY"), MoodIcon(MoodHappy); got != want {
		t.Errorf("MoodIcon is case sensitive: got %q, want %q", got, want)
	}
}

func TestEffectiveMood(t *testing.T) {
	e := JournalEntry{}
	if e.EffectiveMood() != MoodNeutral {
		t.Errorf("absent mood = %q, want neutral", e.EffectiveMood())
	}
	e.Mood = MoodSad
	if e.EffectiveMood() != MoodSad {
		t.Errorf("mood = %q, want sad", e.EffectiveMood())
	}
}

func TestNormalizeDayKey(t *testing.T) {
	tests := map[string]string{
		"2024-05-01":                "2024-05-01",
		"2024-05-01T00:00:00Z":      "2024-05-01",
		" 2024-05-01 ":              "2024-05-01",
		"2024-05-01T23:59:59+02:00": "2024-05-01",
		"garbage":                   "garbage",
	}
	for in, want := range tests {
		if got := NormalizeDayKey(in); got != want {
			t.Errorf("NormalizeDayKey(%q) = %q, want %q", in, got, want)
		}
	}
	if !SameDay("2024-05-01", "2024-05-01T00:00:00Z") {
		t.Error("SameDay should ignore time of day")
	}
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2024, 1, 15, 14, 30, 45, 123, time.Local)
	got := NormalizeDate(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("NormalizeDate kept time of day: %v", got)
	}
	if DayKey(got) != "2024-01-15" {
		t.Errorf("DayKey = %s, want 2024-01-15", DayKey(got))
	}
}

func TestPatchApply(t *testing.T) {
	e := JournalEntry{ID: "abcd1234", Title: "A", Content: "x", Date: "2024-05-01"}
	got := MoodPatch(MoodHappy, "bright day").Apply(e)
	if got.Title != "A" || got.Content != "x" || got.Date != "2024-05-01" {
		t.Errorf("mood patch touched other fields: %+v", got)
	}
	if got.Mood != MoodHappy || got.MoodSummary != "bright day" {
		t.Errorf("mood fields not applied: %+v", got)
	}
	if !(Patch{}).IsEmpty() {
		t.Error("zero Patch should be empty")
	}
}

func TestPreview(t *testing.T) {
	e := JournalEntry{Title: "Walk", Content: "line one\nline two"}
	if got := e.Preview(80); got != "Walk — line one line two" {
		t.Errorf("Preview = %q", got)
	}
	long := JournalEntry{Content: "abcdefghijklmnopqrstuvwxyz"}
	if got := long.Preview(10); got != "abcdefg..." {
		t.Errorf("Preview truncated = %q", got)
	}

	multi := JournalEntry{Title: "Café", Content: "naïve ☕☕☕☕"}
	for n, want := range map[int]string{
		7:  "Café...",
		10: "Café — ...",
		11: "Café — n...",
		16: "Café — naïve ...",
		17: "Café — naïve ☕☕☕☕",
		2:  "Ca",
		0:  "",
		-1: "",
	} {
		got := multi.Preview(n)
		if got != want {
			t.Errorf("Preview(%d) = %q, want %q", n, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Preview(%d) = %q is not valid UTF-8", n, got)
		}
	}
}
