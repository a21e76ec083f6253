package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/chris-regnier/moodjournal/internal/entry"
)

func strPtr(s string) *string { return &s }

func noEditor(t *testing.T) func(string, string) (string, string, bool, error) {
	return func(string, string) (string, string, bool, error) {
		t.Fatal("editor should not open")
		return "", "", false, nil
	}
}

func entryOn(t *testing.T, userID, day string) (entry.JournalEntry, bool) {
	t.Helper()
	entries, err := store.ListEntries(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	for _, e := range entries {
		if entry.SameDay(e.Date, day) {
			return e, true
		}
	}
	return entry.JournalEntry{}, false
}

func TestWriteFromArgsCreatesEntry(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)

	var buf bytes.Buffer
	err := writeRun(context.Background(), &buf, userID, writeOptions{
		Day:      "2024-05-15",
		Title:    strPtr("Lake"),
		Content:  strPtr("Walked by the lake."),
		EditWith: noEditor(t),
	})
	if err != nil {
		t.Fatalf("writeRun: %v", err)
	}

	e, ok := entryOn(t, userID, "2024-05-15")
	if !ok {
		t.Fatal("entry not stored")
	}
	if e.Title != "Lake" || e.Content != "Walked by the lake." {
		t.Errorf("stored %+v", e)
	}
	if want := "Saved entry " + e.ID + " for 2024-05-15\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteReplaceAsksForConfirmation(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	orig := seedEntry(t, userID, "2024-05-15", "Park", "Sunny walk")

	var asked string
	decline := func(prompt string) (bool, error) { asked = prompt; return false, nil }

	var buf bytes.Buffer
	err := writeRun(context.Background(), &buf, userID, writeOptions{
		Day: "2024-05-15", Content: strPtr("Rain all day"), EditWith: noEditor(t), Confirm: decline,
	})
	if err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	if !strings.Contains(asked, "2024-05-15") {
		t.Errorf("prompt = %q", asked)
	}
	if buf.String() != "No changes for 2024-05-15.\n" {
		t.Errorf("output = %q", buf.String())
	}
	if e, _ := entryOn(t, userID, "2024-05-15"); e.Content != "Sunny walk" {
		t.Errorf("declined replace changed content to %q", e.Content)
	}

	accept := func(string) (bool, error) { return true, nil }
	buf.Reset()
	if err := writeRun(context.Background(), &buf, userID, writeOptions{
		Day: "2024-05-15", Content: strPtr("Rain all day"), EditWith: noEditor(t), Confirm: accept,
	}); err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	e, _ := entryOn(t, userID, "2024-05-15")
	if e.ID != orig.ID {
		t.Errorf("expected update in place, got new id %s", e.ID)
	}
	if e.Content != "Rain all day" || e.Title != "Park" {
		t.Errorf("expected new content with kept title, got %+v", e)
	}
}

func TestWriteYesSkipsConfirmation(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	seedEntry(t, userID, "2024-05-15", "", "Sunny walk")

	var buf bytes.Buffer
	err := writeRun(context.Background(), &buf, userID, writeOptions{
		Day: "2024-05-15", Content: strPtr("Replaced"), Yes: true, EditWith: noEditor(t),
		Confirm: func(string) (bool, error) { t.Fatal("should not ask"); return false, nil },
	})
	if err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	if e, _ := entryOn(t, userID, "2024-05-15"); e.Content != "Replaced" {
		t.Errorf("content = %q", e.Content)
	}
}

func TestWriteEditorFallback(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	seedEntry(t, userID, "2024-05-14", "Park", "Sunny walk")

	var gotTitle, gotContent string
	edit := func(title, content string) (string, string, bool, error) {
		gotTitle, gotContent = title, content
		return "Park again", "Sunny walk, then ice cream", true, nil
	}

	var buf bytes.Buffer
	if err := writeRun(context.Background(), &buf, userID, writeOptions{Day: "2024-05-14", EditWith: edit}); err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	if gotTitle != "Park" || gotContent != "Sunny walk" {
		t.Errorf("editor opened with %q / %q", gotTitle, gotContent)
	}
	e, _ := entryOn(t, userID, "2024-05-14")
	if e.Title != "Park again" || e.Content != "Sunny walk, then ice cream" {
		t.Errorf("stored %+v", e)
	}
}

func TestWriteEditorUnchanged(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)

	unchanged := func(title, content string) (string, string, bool, error) { return title, content, false, nil }
	var buf bytes.Buffer
	if err := writeRun(context.Background(), &buf, userID, writeOptions{Day: "2024-05-15", EditWith: unchanged}); err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	if buf.String() != "No changes for 2024-05-15.\n" {
		t.Errorf("output = %q", buf.String())
	}
	if _, ok := entryOn(t, userID, "2024-05-15"); ok {
		t.Error("no entry should be created")
	}
}

func TestWriteTitleOnlyKeepsContent(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)
	seedEntry(t, userID, "2024-05-15", "Park", "Sunny walk")

	var buf bytes.Buffer
	if err := writeRun(context.Background(), &buf, userID, writeOptions{
		Day: "2024-05-15", Title: strPtr("Lakeside"), EditWith: noEditor(t),
	}); err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	e, _ := entryOn(t, userID, "2024-05-15")
	if e.Title != "Lakeside" || e.Content != "Sunny walk" {
		t.Errorf("stored %+v", e)
	}
}

func TestWriteBlankIsNoOp(t *testing.T) {
	setupTestEnv(t, nil)
	userID := signIn(t)

	var buf bytes.Buffer
	if err := writeRun(context.Background(), &buf, userID, writeOptions{
		Day: "2024-05-15", Content: strPtr("   \n"), EditWith: noEditor(t),
	}); err != nil {
		t.Fatalf("writeRun: %v", err)
	}
	if buf.String() != "No changes for 2024-05-15.\n" {
		t.Errorf("output = %q", buf.String())
	}
	if _, ok := entryOn(t, userID, "2024-05-15"); ok {
		t.Error("blank write should not create an entry")
	}
}
