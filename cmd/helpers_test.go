package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/chris-regnier/moodjournal/internal/auth"
	"github.com/chris-regnier/moodjournal/internal/config"
	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/mood"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/chris-regnier/moodjournal/internal/storage/markdown"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.Local)

// stripANSI removes ANSI escape sequences from a string
func stripANSI(s string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*[mK]`)
	return ansiRegex.ReplaceAllString(s, "")
}

func setupTestStore(t *testing.T, dir string) storage.Storage {
	t.Helper()
	s, err := markdown.New(dir)
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// setupTestEnv points the package globals at a fresh markdown store with a
// fixed clock and the given analyzer.
func setupTestEnv(t *testing.T, analyzer mood.Analyzer) {
	t.Helper()
	dir := t.TempDir()
	store = setupTestStore(t, dir)
	appConfig = &config.Config{
		Storage:  "markdown",
		DataDir:  dir,
		MaxWidth: 80,
		Mood:     config.MoodConfig{Provider: "proxy", Endpoint: "http://localhost:8080", Fallback: true},
		Shell: config.ShellConfig{
			CacheTTL:    "5m",
			TodayIcon:   "✓",
			NoTodayIcon: "✗",
			StreakIcon:  "🔥",
		},
	}
	logger = zap.NewNop()
	sessions, err := auth.NewSessionStore(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatalf("creating session store: %v", err)
	}
	authSvc = auth.NewService(store, store, sessions, nil)
	jsonOutput = false
	listIDOnly = false

	prevAnalyzer, prevNow := newAnalyzer, timeNow
	newAnalyzer = func(config.MoodConfig, *zap.Logger) (mood.Analyzer, error) { return analyzer, nil }
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() {
		newAnalyzer, timeNow = prevAnalyzer, prevNow
		jsonOutput = false
	})
}

// signIn creates an account and signs it in, returning the user ID.
func signIn(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	var buf bytes.Buffer
	if err := signupRun(ctx, &buf, auth.SignUpInput{
		Name: "Ada Lovelace", Email: "ada@example.com", Password: "s3cret!", ConfirmPassword: "s3cret!",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := loginRun(ctx, &buf, auth.SignInInput{Email: "ada@example.com", Password: "s3cret!"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := currentSession()
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	return sess.User.ID
}

func seedEntry(t *testing.T, userID, day, title, content string) entry.JournalEntry {
	t.Helper()
	e, err := store.InsertEntry(context.Background(), entry.Record{UserID: userID, Date: day, Title: title, Content: content})
	if err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}
	return e
}

func stubAnalyzer(a mood.Analysis, calls *int) mood.Analyzer {
	return mood.AnalyzerFunc(func(ctx context.Context, text string) (mood.Analysis, error) {
		if calls != nil {
			*calls++
		}
		return a, nil
	})
}
