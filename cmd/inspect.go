package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/frontcrypt/internal/ui"
	"github.com/PolarWolf314/frontcrypt/internal/workflows"
)

func newInspectCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "inspect <bundle-dir>",
		Short: "Decrypts a bundle and lists the files it will serve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting inspect command")
			s, cleanup := startSpinner("Decrypting bundle...")
			defer cleanup()

			result, err := workflows.Inspect(cmd.Context(), workflows.InspectOptions{
				BundleDir: args[0],
				Password:  passwordOptions(password, s),
				Audit:     cfg.Audit.Enabled,
			})
			if err != nil {
				return reportError(s, err)
			}
			Logger.Infof("Bundle uses %d PBKDF2 iterations", result.Iterations)

			width := 0
			for _, f := range result.Files {
				width = max(width, len(f.Path))
			}

			var b strings.Builder
			b.WriteString(ui.Success.Sprint("✓") + " Bundle " + ui.Path.Sprint(result.BundleDir) + " unlocked\n")
			fmt.Fprintf(&b, "  %d files, %s archive\n", len(result.Files), ui.HumanSize(result.ArchiveSize))
			for _, f := range result.Files {
				fmt.Fprintf(&b, "    %-*s  %9s %s\n", width, f.Path, ui.HumanSize(int64(f.Size)), ui.Muted.Sprint(f.MIME))
			}
			s.FinalMSG = b.String()
			return nil
		},
	}

	addPasswordFlag(cmd.Flags(), &password)
	return cmd
}
