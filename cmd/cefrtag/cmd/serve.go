package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/config"
)

var (
	serveHost    string
	servePort    int
	serveWatch   bool
	servePhrases bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: "Loads the vocabulary and serves the tagging API until interrupted.\n" +
		"With --watch, edits to the vocabulary file are picked up without a restart.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload when the vocabulary file changes")
	serveCmd.Flags().BoolVar(&servePhrases, "phrases", false, "also match multi-word entries")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	a, _, err := openApp(cmd, func(cfg *config.Config) {
		if flags.Changed("host") {
			cfg.Server.Host = serveHost
		}
		if flags.Changed("port") {
			cfg.Server.Port = servePort
		}
		if flags.Changed("watch") {
			cfg.Vocab.Watch = serveWatch
		}
		if flags.Changed("phrases") {
			cfg.Tagger.Phrases = servePhrases
		}
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		a.Stop()
		return err
	}

	h := a.Service.Health()
	fmt.Fprintf(cmd.OutOrStdout(), "%s serving %s on %s (%s, %d entries)\n",
		paint(colorBold, "⚡"), h.Source, a.WebServer.URL(), statusLabel(h.Status), h.Entries)

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\n⚡ shutting down...")
	return a.Stop()
}
