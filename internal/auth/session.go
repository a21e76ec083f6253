package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

const activeKey = "active"

// User is the authenticated principal.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// Session binds a bearer token to a user until it expires.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func newSession(u User, ttl time.Duration, now time.Time) Session {
	return Session{
		Token:     uuid.NewString(),
		User:      u,
		CreatedAt: now.UTC(),
		ExpiresAt: now.UTC().Add(ttl),
	}
}

// SessionStore persists sessions as JSON blobs on disk, one file per token,
// and remembers which session the CLI is currently signed in with.
type SessionStore struct {
	d *diskv.Diskv
}

// NewSessionStore opens a session store rooted at dir.
func NewSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &SessionStore{d: diskv.New(diskv.Options{
		BasePath:     filepath.Clean(dir),
		CacheSizeMax: 64 * 1024,
		FilePerm:     0600,
		PathPerm:     0700,
	})}, nil
}

func sessionKey(token string) string {
	return "session-" + strings.ReplaceAll(token, "/", "")
}

// Save writes a session.
func (s *SessionStore) Save(sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.d.Write(sessionKey(sess.Token), b)
}

// Get returns the session for token, or ErrNotAuthenticated.
func (s *SessionStore) Get(token string) (Session, error) {
	if token == "" || !s.d.Has(sessionKey(token)) {
		return Session{}, ErrNotAuthenticated
	}
	b, err := s.d.Read(sessionKey(token))
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return sess, nil
}

// Delete forgets a session. Unknown tokens are ignored.
func (s *SessionStore) Delete(token string) error {
	if !s.d.Has(sessionKey(token)) {
		return nil
	}
	return s.d.Erase(sessionKey(token))
}

// SetActive records token as the CLI's signed-in session.
func (s *SessionStore) SetActive(token string) error {
	return s.d.WriteString(activeKey, token)
}

// Active returns the CLI's signed-in session token.
func (s *SessionStore) Active() (string, error) {
	if !s.d.Has(activeKey) {
		return "", ErrNotAuthenticated
	}
	token := strings.TrimSpace(s.d.ReadString(activeKey))
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// ClearActive forgets the CLI's signed-in session.
func (s *SessionStore) ClearActive() error {
	if !s.d.Has(activeKey) {
		return nil
	}
	if err := s.d.Erase(activeKey); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
