package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Reflect on the mood of an entry",
	Long: `Send the entry for a day (today by default) to the configured mood
analyzer and store the summary and mood label it returns.

With --show the stored reflection is printed without a new analysis.`,
	Example: `  moodjournal mood
  moodjournal mood --date 2026-01-31
  moodjournal mood --show`,
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetString("date")
		day, err := dayArg(date)
		if err != nil {
			return err
		}
		show, _ := cmd.Flags().GetBool("show")
		return moodRun(cmd.Context(), cmd.OutOrStdout(), sess.User.ID, day, show)
	},
}

func moodRun(ctx context.Context, w io.Writer, userID, day string, showOnly bool) error {
	vm, err := newViewModel(ctx, userID, true)
	if err != nil {
		return err
	}
	if err := vm.SelectDate(day); err != nil {
		return err
	}

	e := vm.Snapshot().Current
	if e == nil {
		return fmt.Errorf("%s: %w", day, journal.ErrNoEntry)
	}
	if !showOnly {
		analyzed, err := vm.RequestMoodAnalysis(ctx)
		if err != nil {
			return err
		}
		e = &analyzed
	}

	if jsonOutput {
		return ui.FormatJSON(w, map[string]any{
			"id":           e.ID,
			"date":         day,
			"mood":         e.EffectiveMood(),
			"icon":         journal.MoodIcon(e.Mood),
			"mood_summary": e.MoodSummary,
		})
	}
	ui.FormatMood(w, *e)
	return nil
}

func init() {
	moodCmd.Flags().String("date", "", "day of the entry (YYYY-MM-DD)")
	moodCmd.Flags().Bool("show", false, "print the stored reflection without analyzing again")
	rootCmd.AddCommand(moodCmd)
}
