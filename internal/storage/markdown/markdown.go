package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/storage"
)

// Store implements storage.Storage using Markdown files with YAML front-matter.
type Store struct {
	mu             sync.Mutex
	baseDir        string // e.g. ~/.moodjournal/entries/
	profilesDir    string
	credentialsDir string
}

// New creates a new Markdown file storage backend.
func New(dataDir string) (*Store, error) {
	s := &Store{
		baseDir:        filepath.Join(dataDir, "entries"),
		profilesDir:    filepath.Join(dataDir, "profiles"),
		credentialsDir: filepath.Join(dataDir, "credentials"),
	}
	for _, dir := range []string{s.baseDir, s.profilesDir, s.credentialsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating directory %s: %v", storage.ErrStorage, dir, err)
		}
	}
	return s, nil
}

// Close is a no-op for the Markdown backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) userDir(userID string) string {
	return filepath.Join(s.baseDir, url.PathEscape(userID))
}

func (s *Store) entryPath(e entry.JournalEntry) string {
	t := e.Day()
	return filepath.Join(s.userDir(e.UserID), t.Format("2006"), t.Format("01"), t.Format("02"), e.ID+".md")
}

type frontMatter struct {
	ID          string `yaml:"id"`
	UserID      string `yaml:"user_id"`
	Date        string `yaml:"date"`
	Title       string `yaml:"title"`
	Mood        string `yaml:"mood"`
	MoodSummary string `yaml:"mood_summary"`
	CreatedAt   string `yaml:"created_at"`
	UpdatedAt   string `yaml:"updated_at"`
}

func (s *Store) marshal(e entry.JournalEntry) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", e.ID)
	fmt.Fprintf(&b, "user_id: %q\n", e.UserID)
	fmt.Fprintf(&b, "date: %q\n", e.Date)
	fmt.Fprintf(&b, "title: %q\n", e.Title)
	if e.Mood != "" {
		fmt.Fprintf(&b, "mood: %s\n", e.Mood)
	}
	if e.MoodSummary != "" {
		fmt.Fprintf(&b, "mood_summary: %q\n", e.MoodSummary)
	}
	fmt.Fprintf(&b, "created_at: %s\n", e.CreatedAt.UTC().Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "updated_at: %s\n", e.UpdatedAt.UTC().Format(time.RFC3339Nano))
	b.WriteString("---\n\n")
	b.WriteString(e.Content)
	return []byte(b.String())
}

func (s *Store) unmarshal(data []byte) (entry.JournalEntry, error) {
	var fm frontMatter
	content, err := frontmatter.Parse(strings.NewReader(string(data)), &fm)
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: parsing front-matter: %v", storage.ErrStorage, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fm.CreatedAt)
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: parsing created_at: %v", storage.ErrStorage, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fm.UpdatedAt)
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: parsing updated_at: %v", storage.ErrStorage, err)
	}

	return entry.JournalEntry{
		ID:          fm.ID,
		UserID:      fm.UserID,
		Date:        entry.NormalizeDayKey(fm.Date),
		Title:       fm.Title,
		Content:     strings.TrimSpace(string(content)),
		Mood:        entry.Mood(fm.Mood),
		MoodSummary: fm.MoodSummary,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
func (s *Store) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", storage.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", storage.ErrStorage, err)
	}
	tmpName := tmp.Name()

	// Lock the temp file during write
	if err := syscall.Flock(int(tmp.Fd()), syscall.LOCK_EX); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: acquiring lock: %v", storage.ErrStorage, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", storage.ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", storage.ErrStorage, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming file: %v", storage.ErrStorage, err)
	}

	return nil
}

// walkEntries parses every entry file under a user's directory.
// Unreadable and malformed files are skipped.
func (s *Store) walkEntries(ctx context.Context, userID string, fn func(path string, e entry.JournalEntry) error) error {
	root := s.userDir(userID)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		e, err := s.unmarshal(data)
		if err != nil {
			return nil
		}
		return fn(path, e)
	})
	if err != nil {
		return fmt.Errorf("%w: scanning entries: %v", storage.ErrStorage, err)
	}
	return nil
}

// ListEntries returns a user's entries, newest date first.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]entry.JournalEntry, error) {
	entries := []entry.JournalEntry{}
	err := s.walkEntries(ctx, userID, func(_ string, e entry.JournalEntry) error {
		if e.UserID == userID {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// InsertEntry persists a new entry and returns it with its assigned ID.
func (s *Store) InsertEntry(ctx context.Context, rec entry.Record) (entry.JournalEntry, error) {
	if err := entry.ValidateRecord(rec); err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := entry.NormalizeDayKey(rec.Date)
	dayDir := filepath.Join(s.userDir(rec.UserID), date[0:4], date[5:7], date[8:10])
	if existing, _ := filepath.Glob(filepath.Join(dayDir, "*.md")); len(existing) > 0 {
		return entry.JournalEntry{}, fmt.Errorf("%w: entry for %s already exists", storage.ErrConflict, date)
	}

	id, err := entry.NewID()
	if err != nil {
		return entry.JournalEntry{}, fmt.Errorf("%w: generating ID: %v", storage.ErrStorage, err)
	}
	now := time.Now().UTC()
	e := entry.JournalEntry{
		ID:        id,
		UserID:    rec.UserID,
		Date:      date,
		Title:     rec.Title,
		Content:   strings.TrimSpace(rec.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.atomicWrite(s.entryPath(e), s.marshal(e)); err != nil {
		return entry.JournalEntry{}, err
	}
	return e, nil
}

// UpdateEntry applies a patch to the entry owned by userID.
func (s *Store) UpdateEntry(ctx context.Context, id, userID string, patch entry.Patch) (entry.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		path    string
		current entry.JournalEntry
	)
	err := s.walkEntries(ctx, userID, func(p string, e entry.JournalEntry) error {
		if e.ID == id && e.UserID == userID {
			path, current = p, e
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return entry.JournalEntry{}, err
	}
	if path == "" {
		return entry.JournalEntry{}, storage.ErrNotFound
	}

	updated := patch.Apply(current)
	if strings.TrimSpace(updated.Title) == "" && strings.TrimSpace(updated.Content) == "" {
		return entry.JournalEntry{}, fmt.Errorf("%w: entry title and content must not both be empty", storage.ErrValidation)
	}
	updated.Content = strings.TrimSpace(updated.Content)
	updated.UpdatedAt = time.Now().UTC()

	if err := s.atomicWrite(path, s.marshal(updated)); err != nil {
		return entry.JournalEntry{}, err
	}
	return updated, nil
}

// --- Profile and credential records ---

type profileFrontMatter struct {
	ID        string `yaml:"id"`
	Email     string `yaml:"email"`
	FullName  string `yaml:"full_name"`
	CreatedAt string `yaml:"created_at"`
}

type credentialFrontMatter struct {
	UserID       string `yaml:"user_id"`
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	CreatedAt    string `yaml:"created_at"`
}

func (s *Store) profilePath(id string) string {
	return filepath.Join(s.profilesDir, url.PathEscape(id)+".md")
}

func (s *Store) credentialPath(email string) string {
	return filepath.Join(s.credentialsDir, url.PathEscape(strings.ToLower(email))+".md")
}

// InsertProfile persists a user profile.
func (s *Store) InsertProfile(_ context.Context, p storage.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.profilePath(p.ID)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: profile %s already exists", storage.ErrConflict, p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %q\n", p.ID)
	fmt.Fprintf(&b, "email: %q\n", p.Email)
	fmt.Fprintf(&b, "full_name: %q\n", p.FullName)
	fmt.Fprintf(&b, "created_at: %s\n", p.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString("---\n")
	return s.atomicWrite(path, []byte(b.String()))
}

// GetProfile retrieves a profile by user ID.
func (s *Store) GetProfile(_ context.Context, id string) (storage.Profile, error) {
	data, err := os.ReadFile(s.profilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return storage.Profile{}, storage.ErrNotFound
		}
		return storage.Profile{}, fmt.Errorf("%w: reading profile: %v", storage.ErrStorage, err)
	}
	var fm profileFrontMatter
	if _, err := frontmatter.Parse(strings.NewReader(string(data)), &fm); err != nil {
		return storage.Profile{}, fmt.Errorf("%w: parsing profile front-matter: %v", storage.ErrStorage, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, fm.CreatedAt)
	return storage.Profile{
		ID:        fm.ID,
		Email:     fm.Email,
		FullName:  fm.FullName,
		CreatedAt: createdAt,
	}, nil
}

// CreateCredentials persists a login record.
func (s *Store) CreateCredentials(_ context.Context, c storage.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.credentialPath(c.Email)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: email already registered", storage.ErrConflict)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "user_id: %q\n", c.UserID)
	fmt.Fprintf(&b, "email: %q\n", strings.ToLower(c.Email))
	fmt.Fprintf(&b, "password_hash: %q\n", c.PasswordHash)
	fmt.Fprintf(&b, "created_at: %s\n", c.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString("---\n")
	return s.atomicWrite(path, []byte(b.String()))
}

// GetCredentialsByEmail retrieves a login record.
func (s *Store) GetCredentialsByEmail(_ context.Context, email string) (storage.Credentials, error) {
	data, err := os.ReadFile(s.credentialPath(email))
	if err != nil {
		if os.IsNotExist(err) {
			return storage.Credentials{}, storage.ErrNotFound
		}
		return storage.Credentials{}, fmt.Errorf("%w: reading credentials: %v", storage.ErrStorage, err)
	}
	var fm credentialFrontMatter
	if _, err := frontmatter.Parse(strings.NewReader(string(data)), &fm); err != nil {
		return storage.Credentials{}, fmt.Errorf("%w: parsing credentials front-matter: %v", storage.ErrStorage, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, fm.CreatedAt)
	return storage.Credentials{
		UserID:       fm.UserID,
		Email:        fm.Email,
		PasswordHash: fm.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

var _ storage.Storage = (*Store)(nil)
