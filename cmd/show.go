package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
)

var showContentOnly bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a journal entry",
	Long:  "Display the entry for a day with its mood reflection. Defaults to today.",
	Example: `  moodjournal show
  moodjournal show --date 2026-01-31
  moodjournal show --json`,
	Args: cobra.NoArgs,
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
		return showRun(cmd.Context(), cmd.OutOrStdout(), sess.User.ID, day, showContentOnly)
	},
}

func showRun(ctx context.Context, w io.Writer, userID, day string, contentOnly bool) error {
	vm, err := newViewModel(ctx, userID, true)
	if err != nil {
		return err
	}
	e, ok := vm.EntryFor(day)
	if !ok {
		return fmt.Errorf("%s: %w", day, journal.ErrNoEntry)
	}

	if contentOnly {
		fmt.Fprintln(w, e.Content)
		return nil
	}
	if jsonOutput {
		return ui.FormatJSON(w, e)
	}

	theme := ui.ResolveTheme(appConfig.Theme)
	var buf bytes.Buffer
	ui.FormatEntryFull(&buf, e, theme.MarkdownStyle)
	return ui.Pager{MaxWidth: appConfig.MaxWidth, Theme: theme, Out: w}.Page(buf.String())
}

func init() {
	showCmd.Flags().String("date", "", "day to show (YYYY-MM-DD)")
	showCmd.Flags().BoolVar(&showContentOnly, "content-only", false, "print just the entry content")
	rootCmd.AddCommand(showCmd)
}
