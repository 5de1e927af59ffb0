package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/frontcrypt/internal/ui"
	"github.com/PolarWolf314/frontcrypt/internal/workflows"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		unlock   bool
		password string
	)

	cmd := &cobra.Command{
		Use:   "serve <bundle-dir>",
		Short: "Serves a bundle over HTTP for local testing",
		Long: `Serves index.html, sw.js and app.enc the way a static host would.

With --unlock the bundle is decrypted up front and the site is answered
from memory, the same way the browser runtime does after login.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting serve command")
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, cleanup := startSpinner("Preparing bundle...")
			defer cleanup()
			listening := false

			err := workflows.Serve(ctx, workflows.ServeOptions{
				BundleDir: args[0],
				Addr:      addr,
				Unlock:    unlock,
				Password:  passwordOptions(password, s),
				Audit:     cfg.Audit.Enabled,
				OnListening: func(bound string) {
					mode := "locked"
					if unlock {
						mode = "unlocked"
					}
					s.FinalMSG = ui.Success.Sprint("✓") + " Serving " + ui.Path.Sprint(args[0]) +
						" (" + mode + ") at " + ui.Info.Sprint("http://"+bound) + "\n" +
						ui.Info.Sprint("→") + " Press Ctrl+C to stop"
					cleanup()
					listening = true
				},
			})
			if err != nil && listening {
				return err
			}
			if err != nil {
				return reportError(s, err)
			}
			Logger.Infof("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config [serve] addr)")
	cmd.Flags().BoolVar(&unlock, "unlock", false, "decrypt the bundle and serve the site directly")
	addPasswordFlag(cmd.Flags(), &password)

	return cmd
}
