package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/chris-regnier/moodjournal/internal/ui"
)

func seedList(t *testing.T) string {
	t.Helper()
	userID := signIn(t)
	seedEntry(t, userID, "2024-05-13", "Work", "Long meeting")
	seedEntry(t, userID, "2024-05-14", "Park", "Sunny walk by the lake")
	seedEntry(t, "someone-else", "2024-05-14", "", "Not mine, also by the lake")
	return userID
}

func TestListNewestFirst(t *testing.T) {
	setupTestEnv(t, nil)
	userID := seedList(t)

	var buf bytes.Buffer
	if err := listRun(context.Background(), &buf, userID, "", ""); err != nil {
		t.Fatalf("listRun: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stripANSI(buf.String())), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "2024-05-14") || !strings.Contains(lines[2], "2024-05-13") {
		t.Errorf("entries not newest first:\n%s", buf.String())
	}
}

func TestListSearch(t *testing.T) {
	setupTestEnv(t, nil)
	userID := seedList(t)

	jsonOutput = true
	var buf bytes.Buffer
	if err := listRun(context.Background(), &buf, userID, "LAKE", ""); err != nil {
		t.Fatalf("listRun: %v", err)
	}
	var got []ui.EntrySummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Park" {
		t.Errorf("search results = %+v", got)
	}
}

func TestListDateFilterAndIDOnly(t *testing.T) {
	setupTestEnv(t, nil)
	userID := seedList(t)
	e, _ := entryOn(t, userID, "2024-05-13")

	listIDOnly = true
	var buf bytes.Buffer
	if err := listRun(context.Background(), &buf, userID, "", "2024-05-13"); err != nil {
		t.Fatalf("listRun: %v", err)
	}
	if buf.String() != e.ID+"\n" {
		t.Errorf("output = %q, want %q", buf.String(), e.ID+"\n")
	}

	if err := listRun(context.Background(), &buf, userID, "", "13/05/2024"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestListEmptyMessage(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)

	var buf bytes.Buffer
	if err := listRun(context.Background(), &buf, userID, "", ""); err != nil {
		t.Fatalf("listRun: %v", err)
	}
	if !strings.Contains(buf.String(), "No journal entries found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}
