package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Store implements storage.Storage on a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to postgres: %v", storage.ErrStorage, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging postgres: %v", storage.ErrStorage, err)
	}
	s := &Store{pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal_entries (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			date         DATE NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL DEFAULT '',
			mood         TEXT NOT NULL DEFAULT '',
			mood_summary TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL,
			UNIQUE(user_id, date)
		);
		CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			full_name  TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS credentials (
			user_id       TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Dates are carried as text so the day key survives without timezone shifts.
const entryColumns = "id, user_id, to_char(date, 'YYYY-MM-DD'), title, content, mood, mood_summary, created_at, updated_at"

func scanEntry(row pgx.Row) (entry.JournalEntry, error) {
	var e entry.JournalEntry
	var mood string
	if err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Title, &e.Content, &mood, &e.MoodSummary, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return entry.JournalEntry{}, err
	}
	e.Mood = entry.Mood(mood)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

// ListEntries returns a user's entries, newest date first.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]entry.JournalEntry, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = $1 ORDER BY date DESC, created_at DESC",
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
	now := time.Now().UTC().Truncate(time.Microsecond)
	e := entry.JournalEntry{
		ID:        id,
		UserID:    rec.UserID,
		Date:      entry.NormalizeDayKey(rec.Date),
		Title:     rec.Title,
		Content:   rec.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO journal_entries (id, user_id, date, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3::date, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Date, e.Title, e.Content, e.CreatedAt, e.UpdatedAt,
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
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	current, err := scanEntry(tx.QueryRow(ctx,
		"SELECT "+entryColumns+" FROM journal_entries WHERE id = $1 AND user_id = $2 FOR UPDATE", id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entry.JournalEntry{}, storage.ErrNotFound
		}
		return entry.JournalEntry{}, fmt.Errorf("%w: querying entry: %v", storage.ErrStorage, err)
	}

	updated := patch.Apply(current)
	if strings.TrimSpace(updated.Title) == "" && strings.TrimSpace(updated.Content) == "" {
		return entry.JournalEntry{}, fmt.Errorf("%w: entry title and content must not both be empty", storage.ErrValidation)
	}
	updated.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if _, err := tx.Exec(ctx,
		`UPDATE journal_entries SET title = $1, content = $2, mood = $3, mood_summary = $4, updated_at = $5
		 WHERE id = $6 AND user_id = $7`,
		updated.Title, updated.Content, string(updated.Mood), updated.MoodSummary, updated.UpdatedAt, id, userID,
	); err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: updating entry: %v", storage.ErrStorage, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return updated, nil
}

// InsertProfile persists a user profile.
func (s *Store) InsertProfile(ctx context.Context, p storage.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO profiles (id, email, full_name, created_at) VALUES ($1, $2, $3, $4)",
		p.ID, p.Email, p.FullName, p.CreatedAt,
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
	err := s.pool.QueryRow(ctx,
		"SELECT id, email, full_name, created_at FROM profiles WHERE id = $1", id,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Profile{}, storage.ErrNotFound
		}
		return storage.Profile{}, fmt.Errorf("%w: querying profile: %v", storage.ErrStorage, err)
	}
	return p, nil
}

// CreateCredentials persists a login record.
func (s *Store) CreateCredentials(ctx context.Context, c storage.Credentials) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		c.UserID, strings.ToLower(c.Email), c.PasswordHash, c.CreatedAt,
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
	err := s.pool.QueryRow(ctx,
		"SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = $1",
		strings.ToLower(email),
	).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Credentials{}, storage.ErrNotFound
		}
		return storage.Credentials{}, fmt.Errorf("%w: querying credentials: %v", storage.ErrStorage, err)
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ storage.Storage = (*Store)(nil)
