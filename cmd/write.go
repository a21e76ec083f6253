package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chris-regnier/moodjournal/internal/editor"
	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/chris-regnier/moodjournal/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// writeOptions are the inputs of `moodjournal write`.
type writeOptions struct {
	Day      string
	Title    *string // nil keeps the existing title
	Content  *string // nil opens the editor
	Yes      bool
	EditWith func(title, content string) (string, string, bool, error)
	Confirm  func(prompt string) (bool, error)
}

var writeCmd = &cobra.Command{
	Use:   "write [content|-]",
	Short: "Write the journal entry for a day",
	Long: `Create or replace the journal entry for a day (today by default).

Content can be passed as arguments or piped on stdin with "-". Without
content, your editor opens with the current entry; a leading "# " line
becomes the title. Replacing an existing entry's content from the command
line asks for confirmation unless --yes is given.`,
	Example: `  moodjournal write "Walked by the lake."
  moodjournal write --date 2026-01-31 --title "Snow day"
  echo "Long day" | moodjournal write -`,
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

		opts := writeOptions{Day: day}
		opts.Yes, _ = cmd.Flags().GetBool("yes")
		if cmd.Flags().Changed("title") {
			t, _ := cmd.Flags().GetString("title")
			opts.Title = &t
		}
		switch {
		case len(args) == 1 && args[0] == "-":
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			content := string(data)
			opts.Content = &content
		case len(args) > 0:
			content := strings.Join(args, " ")
			opts.Content = &content
		}

		editorCmd := editor.ResolveEditor(appConfig.Editor)
		opts.EditWith = func(title, content string) (string, string, bool, error) {
			return editor.Edit(editorCmd, title, content)
		}
		theme := ui.ResolveTheme(appConfig.Theme)
		opts.Confirm = func(prompt string) (bool, error) {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return false, errors.New("refusing to replace an entry without --yes on a non-interactive terminal")
			}
			return ui.Confirm(prompt, theme)
		}

		return writeRun(cmd.Context(), cmd.OutOrStdout(), sess.User.ID, opts)
	},
}

func writeRun(ctx context.Context, w io.Writer, userID string, opts writeOptions) error {
	vm, err := newViewModel(ctx, userID, true)
	if err != nil {
		return err
	}
	if err := vm.SelectDate(opts.Day); err != nil {
		return err
	}
	vm.BeginEdit()
	draft := vm.Snapshot().Draft
	existing, hasEntry := vm.Current()

	if opts.Title != nil {
		draft.Title = *opts.Title
	}

	switch {
	case opts.Content != nil:
		if hasEntry && !opts.Yes && strings.TrimSpace(existing.Content) != "" && opts.Confirm != nil {
			ok, err := opts.Confirm(fmt.Sprintf("Replace the entry for %s?", opts.Day))
			if err != nil {
				return err
			}
			if !ok {
				vm.CancelEdit()
				ui.FormatNoChanges(w, opts.Day)
				return nil
			}
		}
		draft.Content = *opts.Content
	case opts.Title == nil || !hasEntry:
		title, content, changed, err := opts.EditWith(draft.Title, draft.Content)
		if err != nil {
			return fmt.Errorf("editor: %w", err)
		}
		if !changed {
			vm.CancelEdit()
			ui.FormatNoChanges(w, opts.Day)
			return nil
		}
		draft = journal.Draft{Title: title, Content: content}
	}

	vm.SetDraft(draft)
	saved, err := vm.Save(ctx)
	if err != nil {
		return err
	}
	if saved == nil {
		vm.CancelEdit()
		ui.FormatNoChanges(w, opts.Day)
		return nil
	}

	if jsonOutput {
		return ui.FormatJSON(w, saved)
	}
	ui.FormatEntrySaved(w, *saved)
	return nil
}

func init() {
	writeCmd.Flags().String("date", "", "day of the entry (YYYY-MM-DD)")
	writeCmd.Flags().String("title", "", "entry title")
	writeCmd.Flags().BoolP("yes", "y", false, "replace an existing entry without asking")
	rootCmd.AddCommand(writeCmd)
}
