package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/storage"
	_ "github.com/tursodatabase/go-libsql"
)

// Store implements storage.Storage using SQLite via Turso/libSQL.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite storage backend.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, "moodjournal.db")
	db, err := sql.Open("libsql", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal_entries (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			date         TEXT NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL DEFAULT '',
			mood         TEXT NOT NULL DEFAULT '',
			mood_summary TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,
			UNIQUE(user_id, date)
		);
		CREATE INDEX IF NOT EXISTS idx_journal_entries_user_date ON journal_entries(user_id, date DESC);
		CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			full_name  TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS credentials (
			user_id       TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const entryColumns = "id, user_id, date, title, content, mood, mood_summary, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (entry.JournalEntry, error) {
	var e entry.JournalEntry
	var mood, createdStr, updatedStr string
	if err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Title, &e.Content, &mood, &e.MoodSummary, &createdStr, &updatedStr); err != nil {
		return entry.JournalEntry{}, err
	}
	e.Mood = entry.Mood(mood)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return e, nil
}

// ListEntries returns a user's entries, newest date first.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]entry.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? ORDER BY date DESC, created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	entries := []entry.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	return entries, nil
}

// InsertEntry persists a new entry and returns it with its assigned ID.
func (s *Store) InsertEntry(ctx context.Context, rec entry.Record) (entry.JournalEntry, error) {
	if err := entry.ValidateRecord(rec); err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	id, err := entry.NewID()
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: generating ID: %v", storage.ErrStorage, err)
	}
	now := time.Now().UTC()
	e := entry.JournalEntry{
		ID:        id,
		UserID:    rec.UserID,
		Date:      entry.NormalizeDayKey(rec.Date),
		Title:     rec.Title,
		Content:   rec.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO journal_entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, e.Date, e.Title, e.Content, "", "",
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entry.JournalEntry{}, fmt.Errorf("%w: entry for %s already exists", storage.ErrConflict, e.Date)
		}
		return entry.JournalEntry{}, fmt.Errorf("%w: inserting entry: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// UpdateEntry applies a patch to the entry owned by userID.
func (s *Store) UpdateEntry(ctx context.Context, id, userID string, patch entry.Patch) (entry.JournalEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE id = ? AND user_id = ?", id, userID,
	)
	current, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry.JournalEntry{}, storage.ErrNotFound
		}
		return entry.JournalEntry{}, fmt.Errorf("%w: querying entry: %v", storage.ErrStorage, err)
	}

	updated := patch.Apply(current)
	if strings.TrimSpace(updated.Title) == "" && strings.TrimSpace(updated.Content) == "" {
		return entry.JournalEntry{}, fmt.Errorf("%w: entry title and content must not both be empty", storage.ErrValidation)
	}
	updated.UpdatedAt = time.Now().UTC()

	if _, err := tx.ExecContext(ctx,
		"UPDATE journal_entries SET title = ?, content = ?, mood = ?, mood_summary = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		updated.Title, updated.Content, string(updated.Mood), updated.MoodSummary,
		updated.UpdatedAt.Format(time.RFC3339Nano), id, userID,
	); err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: updating entry: %v", storage.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return updated, nil
}

// InsertProfile persists a user profile.
func (s *Store) InsertProfile(ctx context.Context, p storage.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO profiles (id, email, full_name, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.Email, p.FullName, p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: profile %s already exists", storage.ErrConflict, p.ID)
		}
		return fmt.Errorf("%w: inserting profile: %v", storage.ErrStorage, err)
	}
	return nil
}

// GetProfile retrieves a profile by user ID.
func (s *Store) GetProfile(ctx context.Context, id string) (storage.Profile, error) {
	var p storage.Profile
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, full_name, created_at FROM profiles WHERE id = ?", id,
	).Scan(&p.ID, &p.Email, &p.FullName, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Profile{}, storage.ErrNotFound
		}
		return storage.Profile{}, fmt.Errorf("%w: querying profile: %v", storage.ErrStorage, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return p, nil
}

// CreateCredentials persists a login record.
func (s *Store) CreateCredentials(ctx context.Context, c storage.Credentials) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		c.UserID, strings.ToLower(c.Email), c.PasswordHash, c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", storage.ErrConflict)
		}
		return fmt.Errorf("%w: inserting credentials: %v", storage.ErrStorage, err)
	}
	return nil
}

// GetCredentialsByEmail retrieves a login record.
func (s *Store) GetCredentialsByEmail(ctx context.Context, email string) (storage.Credentials, error) {
	var c storage.Credentials
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = ?",
		strings.ToLower(email),
	).Scan(&c.UserID, &c.Email, &c.PasswordHash, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Credentials{}, storage.ErrNotFound
		}
		return storage.Credentials{}, fmt.Errorf("%w: querying credentials: %v", storage.ErrStorage, err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return c, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}

var _ storage.Storage = (*Store)(nil)
