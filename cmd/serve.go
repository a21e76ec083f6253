package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chris-regnier/moodjournal/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	Long: `Serve the journal API: account signup and login, per-user entries, and
the /api/analyze-mood endpoint that the proxy mood provider calls.

The server itself needs a direct mood provider (openai or gemini); the
proxy provider would call back into this server.`,
	Example: `  moodjournal serve --addr :8080
  MOODJOURNAL_MOOD_PROVIDER=gemini MOODJOURNAL_MOOD_API_KEY=... moodjournal serve`,
	Annotations: map[string]string{annotationLogStderr: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = appConfig.Server.Addr
		}
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			appConfig.Mood.Provider = p
		}
		provider := strings.ToLower(appConfig.Mood.Provider)
		if provider == "" || provider == "proxy" {
			return fmt.Errorf("serve needs a direct mood provider (openai or gemini), got %q", appConfig.Mood.Provider)
		}

		analyzer, err := newAnalyzer(appConfig.Mood, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting server", zap.String("addr", addr), zap.String("storage", appConfig.Storage), zap.String("mood_provider", provider))
		return server.New(store, authSvc, analyzer, logger).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().String("provider", "", "mood provider override (openai|gemini)")
	rootCmd.AddCommand(serveCmd)
}
