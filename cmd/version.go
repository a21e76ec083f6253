package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print the moodjournal version",
		Example:     "  moodjournal version --short",
		Annotations: map[string]string{annotationNoSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	rootCmd.AddCommand(cmd)
}
