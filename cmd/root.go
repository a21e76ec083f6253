package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chris-regnier/moodjournal/internal/auth"
	"github.com/chris-regnier/moodjournal/internal/config"
	"github.com/chris-regnier/moodjournal/internal/editor"
	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/chris-regnier/moodjournal/internal/logging"
	"github.com/chris-regnier/moodjournal/internal/mood"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/chris-regnier/moodjournal/internal/storage/markdown"
	"github.com/chris-regnier/moodjournal/internal/storage/postgres"
	"github.com/chris-regnier/moodjournal/internal/storage/sqlite"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Command annotations read by the root pre-run hook.
const (
	annotationNoSetup   = "moodjournal/no-setup"
	annotationLogStderr = "moodjournal/log-stderr"
)

var (
	cfgFile        string
	jsonOutput     bool
	storageBackend string
	verbose        bool
	appConfig      *config.Config
	store          storage.Storage
	logger         = zap.NewNop()
	authSvc        *auth.Service

	// Replaced in tests.
	newAnalyzer = mood.New
	timeNow     = time.Now
)

var errNotSignedIn = fmt.Errorf("%w: run `moodjournal login`", auth.ErrNotAuthenticated)

var rootCmd = &cobra.Command{
	Use:   "moodjournal",
	Short: "A daily journal with mood reflections",
	Long: `moodjournal keeps one journal entry per day and asks a language model to
reflect on the mood of what you wrote.

Run without arguments to open the calendar journal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoSetup] != "" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		teardown()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			// Non-TTY: fall back to today's entry
			return showRun(cmd.Context(), cmd.OutOrStdout(), sess.User.ID, entry.DayKey(timeNow()), false)
		}
		vm, err := newViewModel(cmd.Context(), sess.User.ID, false)
		if err != nil {
			return err
		}
		return ui.RunTUI(cmd.Context(), vm, sess.User.ID, ui.TUIConfig{
			Editor:   editor.ResolveEditor(appConfig.Editor),
			MaxWidth: appConfig.MaxWidth,
			Theme:    ui.ResolveTheme(appConfig.Theme),
			UserName: sess.User.FullName,
		})
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (sqlite|markdown|postgres)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// setup loads config and opens the logger, storage, and auth service.
func setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg

	// Override storage backend from flag
	if storageBackend != "" {
		appConfig.Storage = storageBackend
	}

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
	}
	logPath := appConfig.Log.File
	if logPath == "" && cmd.Annotations[annotationLogStderr] == "" {
		logPath = filepath.Join(appConfig.DataDir, "moodjournal.log")
	}
	logger, err = logging.New(level, logPath)
	if err != nil {
		return err
	}

	store, err = openStorage(cmd.Context(), appConfig)
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessionStore(filepath.Join(appConfig.DataDir, "sessions"))
	if err != nil {
		return err
	}
	authSvc = auth.NewService(store, store, sessions, logger)
	logger.Debug("initialized", zap.String("storage", appConfig.Storage), zap.String("data_dir", appConfig.DataDir))
	return nil
}

func teardown() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("closing storage", zap.Error(err))
		}
	}
	_ = logger.Sync()
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case "markdown":
		s, err := markdown.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing markdown storage: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite storage: %w", err)
		}
		return s, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres storage requires postgres_dsn")
		}
		s, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initializing postgres storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}

// currentSession returns the CLI's signed-in session.
func currentSession() (auth.Session, error) {
	sess, err := authSvc.CurrentSession()
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return auth.Session{}, errNotSignedIn
		}
		return auth.Session{}, err
	}
	return sess, nil
}

// newViewModel builds the view model for userID with the configured mood
// analyzer. When load is set the user's entries are read before returning.
func newViewModel(ctx context.Context, userID string, load bool) (*journal.EntryViewModel, error) {
	analyzer, err := newAnalyzer(appConfig.Mood, logger)
	if err != nil {
		return nil, err
	}
	vm := journal.New(store, analyzer, logger, journal.WithClock(timeNow))
	if load {
		if err := vm.Initialize(ctx, userID); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

// dayArg validates a --date value, defaulting to today.
func dayArg(s string) (string, error) {
	if s == "" {
		return entry.DayKey(timeNow()), nil
	}
	key := entry.NormalizeDayKey(s)
	if _, err := entry.ParseDay(key); err != nil {
		return "", fmt.Errorf("invalid date format (use YYYY-MM-DD): %s", s)
	}
	return key, nil
}
