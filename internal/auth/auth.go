// Package auth handles signup, login, and bearer-token sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
)

var validate = validator.New()

// SignUpInput is the signup form.
type SignUpInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SignInInput is the login form.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service creates accounts and sessions.
type Service struct {
	creds    storage.CredentialStore
	profiles storage.ProfileStore
	sessions *SessionStore
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewService wires a Service. A nil logger is replaced with a no-op.
func NewService(creds storage.CredentialStore, profiles storage.ProfileStore, sessions *SessionStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		creds:    creds,
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
	}
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "email":
			msgs = append(msgs, "email is not valid")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", strings.ToLower(fe.Field()), fe.Param()))
		case "eqfield":
			msgs = append(msgs, "passwords do not match")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// SignUp registers a new account. The profile record is best effort: a
// failure to write it is logged and the account still exists.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return User{}, describeValidation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	u := User{ID: uuid.NewString(), Email: in.Email, FullName: in.Name}
	now := s.now().UTC()
	if err := s.creds.CreateCredentials(ctx, storage.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	if err := s.profiles.InsertProfile(ctx, storage.Profile{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: now,
	}); err != nil {
		s.logger.Warn("profile insert failed", zap.String("user_id", u.ID), zap.Error(err))
	}

	s.logger.Info("user signed up", zap.String("user_id", u.ID))
	return u, nil
}

// SignIn verifies credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return Session{}, describeValidation(err)
	}

	c, err := s.creds.GetCredentialsByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	u := User{ID: c.UserID, Email: c.Email}
	if p, err := s.profiles.GetProfile(ctx, c.UserID); err == nil {
		u.FullName = p.FullName
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("profile lookup failed", zap.String("user_id", c.UserID), zap.Error(err))
	}

	sess := newSession(u, s.ttl, s.now())
	if err := s.sessions.Save(sess); err != nil {
		return Session{}, fmt.Errorf("saving session: %w", err)
	}
	s.logger.Info("user signed in", zap.String("user_id", u.ID))
	return sess, nil
}

// Lookup resolves a bearer token to its session. Expired sessions are
// removed and reported as ErrNotAuthenticated.
func (s *Service) Lookup(token string) (Session, error) {
	sess, err := s.sessions.Get(token)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(s.now()) {
		_ = s.sessions.Delete(token)
		return Session{}, ErrNotAuthenticated
	}
	return sess, nil
}

// Activate makes sess the CLI's signed-in session.
func (s *Service) Activate(sess Session) error {
	return s.sessions.SetActive(sess.Token)
}

// CurrentSession returns the CLI's signed-in session.
func (s *Service) CurrentSession() (Session, error) {
	token, err := s.sessions.Active()
	if err != nil {
		return Session{}, err
	}
	sess, err := s.Lookup(token)
	if err != nil {
		_ = s.sessions.ClearActive()
		return Session{}, err
	}
	return sess, nil
}

// CurrentUser returns the user of the CLI's signed-in session.
func (s *Service) CurrentUser() (User, error) {
	sess, err := s.CurrentSession()
	if err != nil {
		return User{}, err
	}
	return sess.User, nil
}

// SignOut ends the session for token. An empty token signs out the CLI's
// active session.
func (s *Service) SignOut(token string) error {
	if token == "" {
		active, err := s.sessions.Active()
		if err != nil {
			return nil
		}
		token = active
	}
	if active, err := s.sessions.Active(); err == nil && active == token {
		if err := s.sessions.ClearActive(); err != nil {
			return err
		}
	}
	return s.sessions.Delete(token)
}
