package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
)

var (
	searchQuery string
	dateFilter  string
	listIDOnly  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	Long:  "List your journal entries with mood and preview, newest first.",
	Example: `  moodjournal list
  moodjournal list --search lake
  moodjournal list --date 2026-01-31
  moodjournal list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		return listRun(cmd.Context(), cmd.OutOrStdout(), sess.User.ID, searchQuery, dateFilter)
	},
}

func listRun(ctx context.Context, w io.Writer, userID, query, date string) error {
	vm, err := newViewModel(ctx, userID, true)
	if err != nil {
		return err
	}
	entries := vm.FilteredEntries(query)

	if date != "" {
		day, err := dayArg(date)
		if err != nil {
			return err
		}
		var onDay []entry.JournalEntry
		for _, e := range entries {
			if entry.SameDay(e.Date, day) {
				onDay = append(onDay, e)
			}
		}
		entries = onDay
	}

	if listIDOnly {
		for _, e := range entries {
			fmt.Fprintln(w, e.ID)
		}
		return nil
	}

	if jsonOutput {
		return ui.FormatJSON(w, ui.ToSummaries(entries))
	}
	var buf bytes.Buffer
	ui.FormatEntryList(&buf, entries)
	return ui.Pager{MaxWidth: appConfig.MaxWidth, Theme: ui.ResolveTheme(appConfig.Theme), Out: w}.Page(buf.String())
}

func init() {
	listCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "only entries whose title or content contains this text")
	listCmd.Flags().StringVar(&dateFilter, "date", "", "filter by date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listIDOnly, "id-only", false, "print just entry IDs, one per line")
	rootCmd.AddCommand(listCmd)
}
