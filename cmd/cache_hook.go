package cmd

import (
	"github.com/chris-regnier/moodjournal/internal/shell"
	"github.com/spf13/cobra"
)

// invalidateCachePostRun is a PostRunE hook that invalidates the status cache
// after commands that change entries or the signed-in user.
func invalidateCachePostRun(cmd *cobra.Command, args []string) error {
	if appConfig == nil {
		return nil
	}
	// Best-effort: a stale prompt must never fail a successful command.
	_ = shell.InvalidateCache(appConfig.DataDir)
	return nil
}
