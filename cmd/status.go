package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/shell"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// statusData holds the template data for status formatting.
type statusData struct {
	Name       string
	TodayIcon  string
	MoodIcon   string
	Streak     int
	StreakIcon string
	Total      int
	Backend    string
	HasToday   bool
}

type statusOptions struct {
	Env     bool
	Refresh bool
	Check   bool
	Format  string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show journal status",
	Long: `Show journal status for shell prompt integration.

Outputs the today indicator, today's mood, and the streak of consecutive
days with an entry. Reads from cache when fresh, queries storage when stale.

Use --env to output shell environment variable assignments.
Use --refresh to force a cache refresh.
Use --check to verify the session, storage, and mood analyzer settings.
Use --format with a Go template for custom output.`,
	Example: `  moodjournal status
  moodjournal status --env
  moodjournal status --refresh
  moodjournal status --format "{{.TodayIcon}} {{.Streak}}{{.StreakIcon}}"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts statusOptions
		opts.Env, _ = cmd.Flags().GetBool("env")
		opts.Refresh, _ = cmd.Flags().GetBool("refresh")
		opts.Check, _ = cmd.Flags().GetBool("check")
		opts.Format, _ = cmd.Flags().GetString("format")
		return statusRun(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func statusRun(ctx context.Context, w io.Writer, opts statusOptions) error {
	if opts.Check {
		return statusCheckRun(ctx, w)
	}

	sess, err := currentSession()
	if err != nil {
		return err
	}
	userID := sess.User.ID

	name := sess.User.FullName
	cache := shell.ReadCache(appConfig.DataDir)
	if opts.Refresh || !cache.IsFresh(userID, appConfig.CacheTTL(), timeNow()) {
		var (
			profile storage.Profile
			entries []entry.JournalEntry
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := store.GetProfile(gctx, userID)
			if err != nil {
				// A missing profile only loses the display name.
				logger.Debug("profile lookup failed", zap.String("user_id", userID), zap.Error(err))
				return nil
			}
			profile = p
			return nil
		})
		g.Go(func() error {
			var err error
			entries, err = store.ListEntries(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("computing status: %w", err)
		}
		if profile.FullName != "" {
			name = profile.FullName
		}

		st := shell.ComputeStatus(entries, timeNow())
		st.UserID = userID
		st.StorageBackend = appConfig.Storage
		cache = &st
		if err := shell.WriteCache(appConfig.DataDir, cache); err != nil {
			// Non-fatal: cache write failure shouldn't break the prompt
			logger.Warn("could not write status cache", zap.Error(err))
		}
	}

	data := buildStatusData(cache, name)

	if opts.Env {
		return outputEnv(w, data)
	}
	if opts.Format != "" {
		return outputTemplate(w, data, opts.Format)
	}
	if jsonOutput {
		return ui.FormatJSON(w, cache)
	}
	return outputDefault(w, data)
}

func buildStatusData(cache *shell.StatusCache, name string) statusData {
	icon := appConfig.Shell.NoTodayIcon
	var moodIcon string
	if cache.Today {
		icon = appConfig.Shell.TodayIcon
		if cache.TodayMood != "" {
			moodIcon = entry.MoodIcon(cache.TodayMood)
		}
	}

	return statusData{
		Name:       name,
		TodayIcon:  icon,
		MoodIcon:   moodIcon,
		Streak:     cache.Streak,
		StreakIcon: appConfig.Shell.StreakIcon,
		Total:      cache.Total,
		Backend:    cache.StorageBackend,
		HasToday:   cache.Today,
	}
}

func outputEnv(w io.Writer, data statusData) error {
	fmt.Fprintf(w, "export MOODJOURNAL_TODAY=%q\n", data.TodayIcon)
	fmt.Fprintf(w, "export MOODJOURNAL_STREAK=%q\n", fmt.Sprintf("%d", data.Streak))
	fmt.Fprintf(w, "export MOODJOURNAL_STREAK_ICON=%q\n", data.StreakIcon)
	if data.MoodIcon != "" {
		fmt.Fprintf(w, "export MOODJOURNAL_MOOD=%q\n", data.MoodIcon)
	}
	if data.Backend != "" {
		fmt.Fprintf(w, "export MOODJOURNAL_BACKEND=%q\n", data.Backend)
	}
	return nil
}

func outputTemplate(w io.Writer, data statusData, format string) error {
	tmpl, err := template.New("status").Parse(format)
	if err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing format template: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

func outputDefault(w io.Writer, data statusData) error {
	var parts []string

	// Today indicator + streak
	parts = append(parts, fmt.Sprintf("%s %d%s", data.TodayIcon, data.Streak, data.StreakIcon))

	if data.MoodIcon != "" {
		parts = append(parts, data.MoodIcon)
	}

	// Optional: backend
	if appConfig.Shell.ShowBackend && data.Backend != "" {
		parts = append(parts, data.Backend)
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
	return nil
}

// statusCheckRun reports whether the session, storage, and mood analyzer
// are usable.
func statusCheckRun(ctx context.Context, w io.Writer) error {
	var checks []ui.StatusCheck

	sess, err := currentSession()
	if err != nil {
		checks = append(checks, ui.StatusCheck{Name: "session", Detail: err.Error()})
	} else {
		checks = append(checks, ui.StatusCheck{Name: "session", OK: true, Detail: displayName(sess.User)})
		if entries, err := store.ListEntries(ctx, sess.User.ID); err != nil {
			checks = append(checks, ui.StatusCheck{Name: "storage", Detail: err.Error()})
		} else {
			checks = append(checks, ui.StatusCheck{Name: "storage", OK: true,
				Detail: fmt.Sprintf("%s, %d entries", appConfig.Storage, len(entries))})
		}
	}

	detail := appConfig.Mood.Provider
	if appConfig.Mood.Endpoint != "" {
		detail += " at " + appConfig.Mood.Endpoint
	}
	if appConfig.Mood.Fallback {
		detail += " (neutral fallback)"
	}
	if _, err := newAnalyzer(appConfig.Mood, logger); err != nil {
		checks = append(checks, ui.StatusCheck{Name: "mood", Detail: err.Error()})
	} else {
		checks = append(checks, ui.StatusCheck{Name: "mood", OK: true, Detail: detail})
	}

	if jsonOutput {
		return ui.FormatJSON(w, checks)
	}
	ui.FormatStatus(w, checks)
	return nil
}

func init() {
	statusCmd.Flags().Bool("env", false, "output shell environment variable assignments")
	statusCmd.Flags().Bool("refresh", false, "force cache refresh")
	statusCmd.Flags().Bool("check", false, "check session, storage, and mood analyzer")
	statusCmd.Flags().String("format", "", "Go template format string")
	rootCmd.AddCommand(statusCmd)
}
