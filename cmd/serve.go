// =============================================================================
// Gift Card Intake - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   giftcards serve [--addr :8080]
//
// Starts the HTTP API used by the web form. The session ledger lives for as
// long as the server runs; stopping the server (SIGINT/SIGTERM) ends the
// session after in-flight requests finish.
//
// =============================================================================

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/giftcard-intake/internal/api"
)

// serveAddr overrides listen_addr from the configuration.
var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	addr := sess.cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	router := api.NewRouter(sess.ledger, api.Options{
		Stores:         sess.cfg.Stores,
		Volunteers:     sess.cfg.Volunteers,
		MaxUploadBytes: sess.cfg.MaxUploadBytes,
		Logger:         sess.log,
	})

	return api.Serve(ctx, addr, router, sess.log)
}
