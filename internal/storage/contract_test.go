package storage_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/chris-regnier/moodjournal/internal/storage/markdown"
	"github.com/chris-regnier/moodjournal/internal/storage/postgres"
	"github.com/chris-regnier/moodjournal/internal/storage/sqlite"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type storageFactory func(t *testing.T) storage.Storage

func markdownFactory(t *testing.T) storage.Storage {
	t.Helper()
	dir := t.TempDir()
	s, err := markdown.New(dir)
	if err != nil {
		t.Fatalf("creating markdown storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sqliteFactory(t *testing.T) storage.Storage {
	t.Helper()
	dir := t.TempDir()
	s, err := sqlite.New(dir)
	if err != nil {
		t.Fatalf("creating sqlite storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func postgresFactory(t *testing.T) storage.Storage {
	t.Helper()
	dsn := os.Getenv("MOODJOURNAL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MOODJOURNAL_TEST_POSTGRES_DSN not set")
	}
	s, err := postgres.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("creating postgres storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// uniqueUser keeps runs against a shared database from colliding.
func uniqueUser(t *testing.T) string {
	t.Helper()
	id, err := gonanoid.New()
	if err != nil {
		t.Fatalf("generating user ID: %v", err)
	}
	return "user-" + id
}

func mustInsert(t *testing.T, s storage.Storage, rec entry.Record) entry.JournalEntry {
	t.Helper()
	e, err := s.InsertEntry(context.Background(), rec)
	if err != nil {
		t.Fatalf("InsertEntry(%s): %v", rec.Date, err)
	}
	return e
}

func runContractTests(t *testing.T, name string, factory storageFactory) {
	t.Run(name, func(t *testing.T) {
		ctx := context.Background()

		t.Run("Insert and List", func(t *testing.T) {
			s := factory(t)
			user := uniqueUser(t)
			e := mustInsert(t, s, entry.Record{UserID: user, Date: "2026-01-15", Title: "Walk", Content: "Hello journal"})
			if err := entry.ValidateID(e.ID); err != nil {
				t.Errorf("assigned ID invalid: %v", err)
			}

			entries, err := s.ListEntries(ctx, user)
			if err != nil {
				t.Fatalf("ListEntries: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			got := entries[0]
			if got.ID != e.ID || got.Title != "Walk" || got.Content != "Hello journal" {
				t.Errorf("got %+v, want %+v", got, e)
			}
			if got.Date != "2026-01-15" {
				t.Errorf("date = %q, want 2026-01-15", got.Date)
			}
			if got.Mood != "" || got.MoodSummary != "" {
				t.Errorf("new entry should have no mood, got %q/%q", got.Mood, got.MoodSummary)
			}
		})

		t.Run("Insert empty", func(t *testing.T) {
			s := factory(t)
			_, err := s.InsertEntry(ctx, entry.Record{UserID: uniqueUser(t), Date: "2026-01-15", Title: " ", Content: "  "})
			if !errors.Is(err, storage.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})

		t.Run("Insert duplicate day", func(t *testing.T) {
			s := factory(t)
			user := uniqueUser(t)
			mustInsert(t, s, entry.Record{UserID: user, Date: "2026-01-15", Content: "first"})
			_, err := s.InsertEntry(ctx, entry.Record{UserID: user, Date: "2026-01-15", Content: "second"})
			if !errors.Is(err, storage.ErrConflict) {
				t.Errorf("expected ErrConflict, got: %v", err)
			}
			// Same day for a different user is fine.
			mustInsert(t, s, entry.Record{UserID: uniqueUser(t), Date: "2026-01-15", Content: "other"})
		})

		t.Run("List empty", func(t *testing.T) {
			s := factory(t)
			entries, err := s.ListEntries(ctx, uniqueUser(t))
			if err != nil {
				t.Fatalf("ListEntries: %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("expected empty list, got %d entries", len(entries))
			}
		})

		t.Run("List order", func(t *testing.T) {
			s := factory(t)
			user := uniqueUser(t)
			for _, d := range []string{"2026-01-12", "2026-01-15", "2026-01-10"} {
				mustInsert(t, s, entry.Record{UserID: user, Date: d, Content: "entry on " + d})
			}
			entries, err := s.ListEntries(ctx, user)
			if err != nil {
				t.Fatalf("ListEntries: %v", err)
			}
			want := []string{"2026-01-15", "2026-01-12", "2026-01-10"}
			if len(entries) != len(want) {
				t.Fatalf("expected %d entries, got %d", len(want), len(entries))
			}
			for i, d := range want {
				if entries[i].Date != d {
					t.Errorf("entries[%d].Date = %s, want %s", i, entries[i].Date, d)
				}
			}
		})

		t.Run("List scoped to user", func(t *testing.T) {
			s := factory(t)
			alice, bob := uniqueUser(t), uniqueUser(t)
			mustInsert(t, s, entry.Record{UserID: alice, Date: "2026-01-15", Content: "alice"})
			mustInsert(t, s, entry.Record{UserID: bob, Date: "2026-01-16", Content: "bob"})
			entries, err := s.ListEntries(ctx, alice)
			if err != nil {
				t.Fatalf("ListEntries: %v", err)
			}
			if len(entries) != 1 || entries[0].UserID != alice {
				t.Errorf("expected only alice's entry, got %+v", entries)
			}
		})

		t.Run("Update content", func(t *testing.T) {
			s := factory(t)
			user := uniqueUser(t)
			e := mustInsert(t, s, entry.Record{UserID: user, Date: "2026-01-15", Title: "Old", Content: "original content"})
			time.Sleep(10 * time.Millisecond)

			updated, err := s.UpdateEntry(ctx, e.ID, user, entry.ContentPatch("New", "new content"))
			if err != nil {
				t.Fatalf("UpdateEntry: %v", err)
			}
			if updated.Title != "New" || updated.Content != "new content" {
				t.Errorf("got %q/%q, want New/new content", updated.Title, updated.Content)
			}
			if !updated.UpdatedAt.After(updated.CreatedAt) {
				t.Error("updated_at should be after created_at")
			}
			if updated.Date != e.Date {
				t.Errorf("date changed: %s -> %s", e.Date, updated.Date)
			}
		})

		t.Run("Update mood only", func(t *testing.T) {
			s := factory(t)
			user := uniqueUser(t)
			e := mustInsert(t, s, entry.Record{UserID: user, Date: "2026-01-15", Title: "Walk", Content: "sunny"})

			if _, err := s.UpdateEntry(ctx, e.ID, user, entry.MoodPatch(entry.MoodHappy, "A bright day")); err != nil {
				t.Fatalf("UpdateEntry: %v", err)
			}
			entries, err := s.ListEntries(ctx, user)
			if err != nil {
				t.Fatalf("ListEntries: %v", err)
			}
			got := entries[0]
			if got.Mood != entry.MoodHappy || got.MoodSummary != "A bright day" {
				t.Errorf("mood = %q/%q", got.Mood, got.MoodSummary)
			}
			if got.Title != "Walk" || got.Content != "sunny" {
				t.Errorf("mood patch changed content: %q/%q", got.Title, got.Content)
			}
		})

		t.Run("Update not found", func(t *testing.T) {
			s := factory(t)
			_, err := s.UpdateEntry(ctx, "nonexist", uniqueUser(t), entry.ContentPatch("t", "c"))
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got: %v", err)
			}
		})

		t.Run("Update other user's entry", func(t *testing.T) {
			s := factory(t)
			owner := uniqueUser(t)
			e := mustInsert(t, s, entry.Record{UserID: owner, Date: "2026-01-15", Content: "mine"})
			_, err := s.UpdateEntry(ctx, e.ID, uniqueUser(t), entry.ContentPatch("", "stolen"))
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got: %v", err)
			}
		})

		t.Run("Update to empty", func(t *testing.T) {
			s := factory(t)
			user := uniqueUser(t)
			e := mustInsert(t, s, entry.Record{UserID: user, Date: "2026-01-15", Content: "x"})
			_, err := s.UpdateEntry(ctx, e.ID, user, entry.ContentPatch("", " "))
			if !errors.Is(err, storage.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})

		t.Run("Profiles", func(t *testing.T) {
			s := factory(t)
			id := uniqueUser(t)
			p := storage.Profile{ID: id, Email: id + "@example.com", FullName: "Ada Lovelace"}
			if err := s.InsertProfile(ctx, p); err != nil {
				t.Fatalf("InsertProfile: %v", err)
			}
			got, err := s.GetProfile(ctx, id)
			if err != nil {
				t.Fatalf("GetProfile: %v", err)
			}
			if got.Email != p.Email || got.FullName != p.FullName {
				t.Errorf("got %+v, want %+v", got, p)
			}
			if err := s.InsertProfile(ctx, p); !errors.Is(err, storage.ErrConflict) {
				t.Errorf("duplicate profile: expected ErrConflict, got %v", err)
			}
			if _, err := s.GetProfile(ctx, "missing-"+id); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("Credentials", func(t *testing.T) {
			s := factory(t)
			id := uniqueUser(t)
			email := fmt.Sprintf("%s@Example.com", id)
			c := storage.Credentials{UserID: id, Email: email, PasswordHash: "$2a$10$hash"}
			if err := s.CreateCredentials(ctx, c); err != nil {
				t.Fatalf("CreateCredentials: %v", err)
			}
			got, err := s.GetCredentialsByEmail(ctx, email)
			if err != nil {
				t.Fatalf("GetCredentialsByEmail: %v", err)
			}
			if got.UserID != id || got.PasswordHash != c.PasswordHash {
				t.Errorf("got %+v", got)
			}
			if err := s.CreateCredentials(ctx, storage.Credentials{UserID: "other", Email: email, PasswordHash: "x"}); !errors.Is(err, storage.ErrConflict) {
				t.Errorf("duplicate email: expected ErrConflict, got %v", err)
			}
			if _, err := s.GetCredentialsByEmail(ctx, "nobody-"+email); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})
}

func TestMarkdownStorage(t *testing.T) {
	runContractTests(t, "Markdown", markdownFactory)
}

func TestSQLiteStorage(t *testing.T) {
	runContractTests(t, "SQLite", sqliteFactory)
}

func TestPostgresStorage(t *testing.T) {
	runContractTests(t, "Postgres", postgresFactory)
}
