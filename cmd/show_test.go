package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/journal"
)

func TestShowFullContent(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	e := seedEntry(t, userID, "2024-05-14", "Park", "Full journal entry content here")
	if _, err := store.UpdateEntry(context.Background(), e.ID, userID, entry.MoodPatch(entry.MoodPeaceful, "A calm outing.")); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := showRun(context.Background(), &buf, userID, "2024-05-14", false); err != nil {
		t.Fatalf("showRun: %v", err)
	}
	out := stripANSI(buf.String())
	for _, want := range []string{e.ID, "2024-05-14", "Park", "Full journal entry content here", "peaceful", "A calm outing."} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestShowContentOnly(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	seedEntry(t, userID, "2024-05-14", "Park", "Just the body")

	var buf bytes.Buffer
	if err := showRun(context.Background(), &buf, userID, "2024-05-14", true); err != nil {
		t.Fatalf("showRun: %v", err)
	}
	if buf.String() != "Just the body\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestShowJSON(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	e := seedEntry(t, userID, "2024-05-14", "Park", "Body")

	jsonOutput = true
	var buf bytes.Buffer
	if err := showRun(context.Background(), &buf, userID, "2024-05-14", false); err != nil {
		t.Fatalf("showRun: %v", err)
	}
	var got entry.JournalEntry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.ID != e.ID || got.Content != "Body" {
		t.Errorf("got %+v", got)
	}
}

func TestShowMissingDay(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)

	var buf bytes.Buffer
	err := showRun(context.Background(), &buf, userID, "2024-05-01", false)
	if !errors.Is(err, journal.ErrNoEntry) {
		t.Errorf("expected ErrNoEntry, got %v", err)
	}
}

func TestDayArg(t *testing.T) {
	setupTestEnv(t, nil)
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"", "2024-05-15", false},
		{"2024-02-29", "2024-02-29", false},
		{"2024-05-14T08:00:00Z", "2024-05-14", false},
		{"May 14", "", true},
	}
	for _, tt := range tests {
		got, err := dayArg(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("dayArg(%q) = %q, %v", tt.in, got, err)
		}
	}
}
