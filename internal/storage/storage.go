package storage

import (
	"context"
	"errors"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// Profile is the public record created for a user at signup.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is the login record of a user. PasswordHash is never serialized.
type Credentials struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// EntryStore persists journal entries.
type EntryStore interface {
	// ListEntries returns every entry owned by userID, newest date first.
	ListEntries(ctx context.Context, userID string) ([]entry.JournalEntry, error)
	// InsertEntry creates an entry and returns it with its assigned ID.
	// A second entry for the same (user, date) is rejected with ErrConflict.
	InsertEntry(ctx context.Context, rec entry.Record) (entry.JournalEntry, error)
	// UpdateEntry applies patch to the entry matching both id and userID.
	// An entry owned by someone else is reported as ErrNotFound.
	UpdateEntry(ctx context.Context, id, userID string, patch entry.Patch) (entry.JournalEntry, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	InsertProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, id string) (Profile, error)
}

// CredentialStore persists login credentials.
type CredentialStore interface {
	CreateCredentials(ctx context.Context, c Credentials) error
	GetCredentialsByEmail(ctx context.Context, email string) (Credentials, error)
}

// Storage is the full backend used by the application.
type Storage interface {
	EntryStore
	ProfileStore
	CredentialStore
	Close() error
}
